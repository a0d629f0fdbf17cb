package keyword

import (
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/fxamacker/cbor/v2"
)

// ProtocolVersion is the wire-format version this build produces and
// accepts without a compatibility shim.
var ProtocolVersion = semver.MustParse("1.0.0")

// Envelope wraps a serialized query or response with a protocol version
// stamp, so a future incompatible wire change fails loudly instead of
// silently misparsing (spec §6's serialization note on forward
// compatibility).
type Envelope struct {
	Version string `cbor:"version"`
	Payload []byte `cbor:"payload"`
}

// WrapEnvelope stamps payload with the current protocol version and
// encodes the envelope as CBOR.
func WrapEnvelope(payload []byte) ([]byte, error) {
	env := Envelope{Version: ProtocolVersion.String(), Payload: payload}
	return cbor.Marshal(env)
}

// UnwrapEnvelope decodes a CBOR envelope and returns its payload,
// rejecting a version this build cannot understand.
func UnwrapEnvelope(buf []byte) ([]byte, error) {
	var env Envelope
	if err := cbor.Unmarshal(buf, &env); err != nil {
		return nil, fmt.Errorf("keyword: decoding envelope: %w", err)
	}
	v, err := semver.Parse(env.Version)
	if err != nil {
		return nil, fmt.Errorf("keyword: malformed envelope version %q: %w", env.Version, err)
	}
	if v.Major != ProtocolVersion.Major {
		return nil, fmt.Errorf("keyword: incompatible protocol version %s, this build speaks %s", v, ProtocolVersion)
	}
	return env.Payload, nil
}
