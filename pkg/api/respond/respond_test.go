package respond

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"modelrisk_intake/pkg/core/llm"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("classify a.pdf: %w", llm.ErrMissingCredentials), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: bogus", llm.ErrProviderUnknown), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusBadGateway},
	}
	for _, c := range cases {
		if got := StatusFor(c.err); got != c.want {
			t.Errorf("StatusFor(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}
