/*
Package resilience provides a circuit breaker for calls to external endpoints.

# Overview

The live preview browser exposes a devtools HTTP endpoint that may be slow to
come up or may vanish when the user closes the browser. Wrapping those calls
in a breaker stops the shell from hammering a dead endpoint.

# Usage

	breaker := resilience.New("devtools", resilience.Settings{
		FailureThreshold: 3,
		Cooldown:         5 * time.Second,
	})

	targets, err := resilience.Call(breaker, func() ([]Target, error) {
		return client.List(ctx)
	})

# States

	Closed --[failures]-> Open --[cooldown]-> Half-Open --[success]-> Closed
	                                              |
	                                          [failure]
	                                              v
	                                            Open
*/
package resilience
