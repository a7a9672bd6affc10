package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
)

var (
	ErrDecode = errors.New("malformed request")
	// ErrPayload is returned when funkoPop carries more than one element.
	ErrPayload = errors.New("funkoPop must hold at most one element")
)

var typeField = regexp.MustCompile(`"type"\s*:\s*"([A-Za-z]+)"`)

// ReadRequest decodes exactly one request envelope from r.
// On failure the returned Request carries the best-effort recovered Type
// (KindUnknown when nothing usable was found) and the error wraps ErrDecode.
// The error also wraps io.EOF only when r yielded no bytes.
func ReadRequest(r io.Reader) (Request, error) {
	var seen bytes.Buffer
	dec := json.NewDecoder(io.TeeReader(r, &seen))

	var req Request
	if err := dec.Decode(&req); err != nil {
		// io.EOF is kept only for a peer that sent nothing at all.
		if errors.Is(err, io.EOF) && seen.Len() > 0 {
			err = io.ErrUnexpectedEOF
		}
		return Request{Type: recoverKind(req, seen.Bytes())}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(req.FunkoPop) > 1 {
		return Request{Type: recoverKind(req, nil)}, fmt.Errorf("%w: %w", ErrDecode, ErrPayload)
	}
	return req, nil
}

// recoverKind looks for the operation in a partially decoded request first,
// then in the raw bytes read so far.
func recoverKind(partial Request, raw []byte) Kind {
	if partial.Type.Valid() {
		return partial.Type
	}
	if m := typeField.FindSubmatch(raw); m != nil {
		if k := Kind(m[1]); k.Valid() {
			return k
		}
	}
	return KindUnknown
}

// WriteRequest encodes req onto w.
func WriteRequest(w io.Writer, req Request) error {
	if err := json.NewEncoder(w).Encode(req); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return nil
}

// ReadResponse decodes one response envelope from r.
func ReadResponse(r io.Reader) (Response, error) {
	var resp Response
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

// WriteResponse encodes resp onto w.
func WriteResponse(w io.Writer, resp Response) error {
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}
