package ryys

import (
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
)

var (
	ErrBodyTooLarge = errors.New("ryys: request body exceeds the size limit")
	ErrBodyLength   = errors.New("ryys: request body does not match its declared length")
)

// BodyCollector buffers a complete request body. Length is the declared content length or -1 when unknown.
// Implementations must report oversized bodies with [ErrBodyTooLarge] and framing problems with
// [ErrBodyLength] so the JSON accessor can tell them apart.
type BodyCollector interface {
	Collect(body io.Reader, length, limit int64) ([]byte, error)
}

// LimitCollector is the default [BodyCollector]. It never reads more than limit+1 bytes.
type LimitCollector struct{}

// Collect implements [BodyCollector].
func (LimitCollector) Collect(body io.Reader, length, limit int64) ([]byte, error) {
	if length > limit {
		return nil, errors.Wrapf(ErrBodyTooLarge, "declared %d bytes, limit is %d", length, limit)
	}

	if body == nil || body == http.NoBody {
		if length > 0 {
			return nil, errors.Wrapf(ErrBodyLength, "declared %d bytes, got none", length)
		}
		return []byte{}, nil
	}

	buf, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			return nil, errors.Wrap(ErrBodyTooLarge, mbe.Error())
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, errors.Wrap(ErrBodyLength, err.Error())
		default:
			return nil, errors.Wrap(err, "failed to read request body")
		}
	}

	if int64(len(buf)) > limit {
		return nil, errors.Wrapf(ErrBodyTooLarge, "limit is %d bytes", limit)
	}

	if length >= 0 && int64(len(buf)) != length {
		return nil, errors.Wrapf(ErrBodyLength, "declared %d bytes, got %d", length, len(buf))
	}

	return buf, nil
}
