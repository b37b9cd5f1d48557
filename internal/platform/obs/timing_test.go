package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
)

func TestTimeLogsRequestIDAndError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	ctx := WithRequestID(context.Background(), "r-1")
	err := errors.New("boom")
	Time(ctx, "quotes.QuoteRoute")(&err)

	out := buf.String()
	if !strings.Contains(out, "req_id=r-1") || !strings.Contains(out, "op=quotes.QuoteRoute") || !strings.Contains(out, "err=boom") {
		t.Fatalf("unexpected log line: %q", out)
	}
}

func TestRequestIDMissing(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Fatalf("RequestID = %q, want empty", got)
	}
}
