package platform

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

// EncodingUTF8 is the name reported for UTF-8 content.
const EncodingUTF8 = "utf8"

const bomRune = "\uFEFF"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

var errUTF16 = errors.New("utf-16 and utf-32 content is not supported")

// ReadFile decodes path. encoding is "utf8", a WHATWG label, or ""/"auto"
// to detect it. A leading UTF-8 BOM is stripped and reported.
func (n *Native) ReadFile(path, enc string) (types.ReadResult, errcode.Code) {
	info, err := os.Stat(path)
	if err != nil {
		return types.ReadResult{}, errcode.FromError(err, errcode.Reading)
	}
	if info.IsDir() {
		return types.ReadResult{}, errcode.ErrNotFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.ReadResult{}, errcode.FromError(err, errcode.Reading)
	}
	return decode(data, enc)
}

func decode(data []byte, label string) (types.ReadResult, errcode.Code) {
	if hasUTF16BOM(data) {
		return types.ReadResult{}, errcode.ErrUnsupportedUTF16Encoding
	}
	preserveBOM := bytes.HasPrefix(data, bomUTF8)
	if preserveBOM {
		data = data[len(bomUTF8):]
	}

	label = normalizeLabel(label)
	if label == "" {
		detected, code := detectEncoding(data)
		if !code.OK() {
			return types.ReadResult{}, code
		}
		label = detected
	}

	if label == EncodingUTF8 {
		if !utf8.Valid(data) {
			return types.ReadResult{}, invalidText(data)
		}
		return types.ReadResult{Contents: string(data), Encoding: EncodingUTF8, PreserveBOM: preserveBOM}, errcode.NoError
	}

	e, name, err := lookupEncoding(label)
	if err != nil {
		return types.ReadResult{}, encodingCode(err)
	}
	if name == EncodingUTF8 {
		return decode(data, EncodingUTF8)
	}

	out, err := e.NewDecoder().Bytes(data)
	if err != nil {
		return types.ReadResult{}, errcode.ErrDecodeFileFailed
	}
	return types.ReadResult{Contents: string(out), Encoding: name, PreserveBOM: preserveBOM}, errcode.NoError
}

// WriteFile encodes data and writes it to path. With preserveBOM set a
// UTF-8 BOM is written ahead of the content.
func (n *Native) WriteFile(path, data, enc string, preserveBOM bool) errcode.Code {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return errcode.ErrNotFile
	}

	out, code := encode(data, enc, preserveBOM)
	if !code.OK() {
		return code
	}
	if err := os.WriteFile(path, out, 0o666); err != nil {
		return errcode.FromError(err, errcode.Writing)
	}
	return errcode.NoError
}

func encode(data, label string, preserveBOM bool) ([]byte, errcode.Code) {
	data = strings.TrimPrefix(data, bomRune)

	label = normalizeLabel(label)
	if label == "" {
		label = EncodingUTF8
	}

	var body []byte
	isUTF8 := label == EncodingUTF8
	if isUTF8 {
		body = []byte(data)
	} else {
		e, name, err := lookupEncoding(label)
		if err != nil {
			return nil, encodingCode(err)
		}
		if name == EncodingUTF8 {
			isUTF8 = true
			body = []byte(data)
		} else {
			out, err := e.NewEncoder().String(data)
			if err != nil {
				return nil, errcode.ErrEncodeFileFailed
			}
			body = []byte(out)
		}
	}

	if preserveBOM && isUTF8 {
		return append(append([]byte{}, bomUTF8...), body...), errcode.NoError
	}
	return body, errcode.NoError
}

func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "", "auto":
		return ""
	case "utf8", "utf-8":
		return EncodingUTF8
	}
	return label
}

// lookupEncoding resolves a WHATWG label to an encoding and its canonical
// name ("utf8" for UTF-8).
func lookupEncoding(label string) (encoding.Encoding, string, error) {
	e, err := htmlindex.Get(label)
	if err != nil {
		return nil, "", err
	}
	name, err := htmlindex.Name(e)
	if err != nil {
		return nil, "", err
	}
	switch {
	case name == "utf-8":
		return e, EncodingUTF8, nil
	case strings.HasPrefix(name, "utf-16"):
		return nil, "", errUTF16
	}
	return e, name, nil
}

func encodingCode(err error) errcode.Code {
	if errors.Is(err, errUTF16) {
		return errcode.ErrUnsupportedUTF16Encoding
	}
	return errcode.ErrUnsupportedEncoding
}

func detectEncoding(data []byte) (string, errcode.Code) {
	if utf8.Valid(data) {
		return EncodingUTF8, errcode.NoError
	}
	if !isText(data) {
		return "", errcode.ErrUnsupportedEncoding
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil {
		return "", errcode.ErrUnsupportedEncoding
	}
	_, name, err := lookupEncoding(result.Charset)
	if err != nil {
		return "", encodingCode(err)
	}
	return name, errcode.NoError
}

// invalidText classifies bytes that failed to decode: binary content is
// reported as an unsupported encoding, text as a decode failure.
func invalidText(data []byte) errcode.Code {
	if !isText(data) {
		return errcode.ErrUnsupportedEncoding
	}
	return errcode.ErrDecodeFileFailed
}

func isText(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func hasUTF16BOM(data []byte) bool {
	// UTF-32 LE shares its first two bytes with UTF-16 LE.
	return bytes.HasPrefix(data, bomUTF32LE) ||
		bytes.HasPrefix(data, bomUTF32BE) ||
		bytes.HasPrefix(data, bomUTF16LE) ||
		bytes.HasPrefix(data, bomUTF16BE)
}
