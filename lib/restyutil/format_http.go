package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

// formatTranscript renders one finished exchange as a plain-text
// transcript, request block first, response block after. Headers are
// sorted so transcripts diff cleanly between runs.
func formatTranscript(res *resty.Response) string {
	var b strings.Builder

	req := res.Request
	fmt.Fprintf(&b, ">>> %s %s\n", req.Method, req.URL)
	writeHeaders(&b, req.RawRequest.Header)
	if body := requestBody(req.RawRequest); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}

	url := req.URL
	if redirected, err := res.RawResponse.Location(); err == nil {
		url = redirected.String()
	}
	fmt.Fprintf(&b, "\n<<< %d %s\n", res.StatusCode(), url)
	writeHeaders(&b, res.Header())
	if body := res.String(); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}

	return b.String()
}

func writeHeaders(b *strings.Builder, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(b, "%s: %s\n", k, v)
		}
	}
}

func requestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return ""
	}
	reader, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("(request body unavailable: %s)", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Sprintf("(request body unreadable: %s)", err)
	}
	return string(body)
}
