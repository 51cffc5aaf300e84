package executor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/security"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

var urlVarPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// httpExecutor issues an outbound HTTP call, substituting {{var}} tokens in
// the URL from the node's flattened inputs and enforcing SSRF protection
// per the engine's configured zero-trust network policy.
type httpExecutor struct {
	client *http.Client
	guard  *security.SSRFProtection
}

// NewHTTPExecutor returns the executor for the "httpRequest" node type.
func NewHTTPExecutor(client *http.Client, guard *security.SSRFProtection) NodeExecutor {
	if client == nil {
		client = http.DefaultClient
	}
	if guard == nil {
		guard = security.NewSSRFProtection()
	}
	return &httpExecutor{client: client, guard: guard}
}

func (e *httpExecutor) NodeType() types.NodeType { return types.NodeTypeHTTPRequest }

func (e *httpExecutor) Validate(ctx ExecutionContext, node types.Node) error {
	if types.GetString(node.Data, "url", "") == "" {
		return types.ErrMissingRequiredField("url")
	}
	return nil
}

func (e *httpExecutor) Execute(ctx ExecutionContext, node types.Node) (Output, error) {
	method := strings.ToUpper(types.GetString(node.Data, "method", "GET"))
	rawURL := types.GetString(node.Data, "url", "")
	_, bySource := ctx.GetNodeInputs(node.ID)
	inputs := flattenInputs(bySource)

	resolvedURL := urlVarPattern.ReplaceAllStringFunc(rawURL, func(match string) string {
		name := urlVarPattern.FindStringSubmatch(match)[1]
		if v, ok := inputs[name]; ok {
			return coerceToString(v)
		}
		return match
	})

	if err := e.guard.ValidateURL(resolvedURL); err != nil {
		return Output{}, fmt.Errorf("httpRequest node %s: %w", node.ID, err)
	}

	if err := ctx.IncrementHTTPCall(); err != nil {
		return Output{}, fmt.Errorf("httpRequest node %s: %w", node.ID, err)
	}

	var bodyReader io.Reader
	isJSONBody := false
	if method != "GET" && method != "HEAD" {
		if body, ok := node.Data["body"]; ok && body != nil {
			switch b := body.(type) {
			case string:
				bodyReader = strings.NewReader(b)
			default:
				encoded, err := json.Marshal(b)
				if err != nil {
					return Output{}, fmt.Errorf("httpRequest node %s: encoding body: %w", node.ID, err)
				}
				bodyReader = bytes.NewReader(encoded)
				isJSONBody = true
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx.Context(), method, resolvedURL, bodyReader)
	if err != nil {
		return Output{}, fmt.Errorf("httpRequest node %s: %w", node.ID, err)
	}

	if headers := types.GetMap(node.Data, "headers"); headers != nil {
		for k, v := range headers {
			req.Header.Set(k, coerceToString(v))
		}
	}
	if isJSONBody {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return Output{}, fmt.Errorf("httpRequest node %s: %w", node.ID, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Output{}, fmt.Errorf("httpRequest node %s: reading response: %w", node.ID, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Output{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var parsed interface{}
	if json.Unmarshal(respBody, &parsed) == nil {
		return Output{Value: parsed}, nil
	}
	return Output{Value: string(respBody)}, nil
}
