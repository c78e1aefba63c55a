/*
Package bridge presents native capabilities to the embedded content.

Every operation takes explicit arguments plus a typed completion callback
whose first argument is an errcode.Code:

  - A nil callback is replaced by a no-op, so callers may fire and forget.
  - Native work runs on the Loop; the callback runs in a later task on the
    same loop, never inside the call that registered it.
  - Calls that wait on helper processes (dialogs, the live browser, trash,
    launcher installation) run off the loop and post their callback back.
  - Dialogs start after DialogDelay; CloseLiveBrowser gives up after
    CloseBrowserTimeout with ErrUnknown.
  - Optional capabilities are negotiated with the platform back-end;
    unsupported ones answer without touching the OS.

Invoke adapts the callback API to positional JSON arguments for the
websocket transport. Argument shape errors are returned synchronously as
*ArgumentError. Catalog describes the same operation table.
*/
package bridge
