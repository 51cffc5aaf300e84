// Command demo-conditional-execution shows conditional routing through
// ifElse and switch nodes: only the branch gated by the active handle
// actually executes, the rest stay pending.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yesoreyeram/thaiyyal/backend/pkg/engine"
	"github.com/yesoreyeram/thaiyyal/backend/pkg/types"
)

func main() {
	fmt.Println("=================================================")
	fmt.Println("Conditional Execution Demo")
	fmt.Println("=================================================")
	fmt.Println()

	demo1AgeBasedRouting()
	demo2SwitchRouting()
	demo3NestedConditions()
}

// constNode produces a constant map value through the sandboxed expression
// evaluator - there is no dedicated literal-value node type, so a trivial
// codeExecutor expression stands in for one.
func constNode(id, code string) types.Node {
	return types.Node{ID: id, Type: types.NodeTypeCodeExecutor, Data: map[string]interface{}{"code": code}}
}

func textNode(id, text string) types.Node {
	return constNode(id, fmt.Sprintf("{%q: %q}", "text", text))
}

func ifElseNode(id, field, operator string, value interface{}) types.Node {
	return types.Node{
		ID:   id,
		Type: types.NodeTypeBranch,
		Data: map[string]interface{}{"field": field, "operator": operator, "value": value},
	}
}

func handle(nodeID, suffix string) *string {
	h := fmt.Sprintf("%s-%s", nodeID, suffix)
	return &h
}

func demo1AgeBasedRouting() {
	fmt.Println("DEMO 1: Age-Based API Routing")
	fmt.Println("----------------------------------")
	fmt.Println("Scenario: if age > 17, call profile API then sports API")
	fmt.Println("          if age <= 17, call education API")
	fmt.Println()

	for _, age := range []float64{25, 15} {
		fmt.Printf("Testing with age = %.0f:\n", age)

		payload := types.Payload{
			Nodes: []types.Node{
				constNode("user_age", fmt.Sprintf("{%q: %v}", "age", age)),
				ifElseNode("age_check", "age", "greaterThan", 17.0),
				textNode("profile_api", "fetched user profile"),
				textNode("sports_api", "registered for sports"),
				textNode("education_api", "registered for education"),
			},
			Edges: []types.Edge{
				{Source: "user_age", Target: "age_check"},
				{Source: "age_check", Target: "profile_api", SourceHandle: handle("age_check", "true")},
				{Source: "profile_api", Target: "sports_api"},
				{Source: "age_check", Target: "education_api", SourceHandle: handle("age_check", "false")},
			},
		}

		runAndReport(payload, []string{"profile_api", "sports_api", "education_api"})
	}
	fmt.Println()
}

func demo2SwitchRouting() {
	fmt.Println("DEMO 2: HTTP Status Code Routing with Switch")
	fmt.Println("------------------------------------------------")
	fmt.Println("Scenario: route to a different handler per status code")
	fmt.Println()

	for _, code := range []string{"200", "404", "999"} {
		fmt.Printf("Testing with status_code = %s:\n", code)

		payload := types.Payload{
			Nodes: []types.Node{
				constNode("status_code", fmt.Sprintf("{%q: %q}", "status_code", code)),
				{
					ID:   "router",
					Type: types.NodeTypeSwitch,
					Data: map[string]interface{}{
						"switchKey": "status_code",
						"cases":     []interface{}{"200", "404", "500", "default"},
					},
				},
				textNode("success_handler", "processed successful response"),
				textNode("not_found_handler", "handled not found"),
				textNode("error_handler", "logged server error"),
				textNode("other_handler", "handled other status code"),
			},
			Edges: []types.Edge{
				{Source: "status_code", Target: "router"},
				{Source: "router", Target: "success_handler", SourceHandle: handle("router", "case-200")},
				{Source: "router", Target: "not_found_handler", SourceHandle: handle("router", "case-404")},
				{Source: "router", Target: "error_handler", SourceHandle: handle("router", "case-500")},
				{Source: "router", Target: "other_handler", SourceHandle: handle("router", "case-default")},
			},
		}

		runAndReport(payload, []string{"success_handler", "not_found_handler", "error_handler", "other_handler"})
	}
	fmt.Println()
}

func demo3NestedConditions() {
	fmt.Println("DEMO 3: Nested Conditional Logic")
	fmt.Println("------------------------------------")
	fmt.Println("Scenario: age > 17 and country == US -> special offer")
	fmt.Println("          age > 17 and country != US -> standard offer")
	fmt.Println("          age <= 17                   -> parental consent")
	fmt.Println()

	testCases := []struct {
		age     float64
		country string
	}{
		{25, "US"},
		{25, "UK"},
		{15, "US"},
	}

	for _, tc := range testCases {
		fmt.Printf("Testing with age = %.0f, country = %s:\n", tc.age, tc.country)

		payload := types.Payload{
			Nodes: []types.Node{
				constNode("user", fmt.Sprintf("{%q: %v, %q: %q}", "age", tc.age, "country", tc.country)),
				ifElseNode("age_check", "age", "greaterThan", 17.0),
				ifElseNode("country_check", "country", "equals", "US"),
				textNode("special_offer", "US special offer applied"),
				textNode("standard_offer", "standard offer applied"),
				textNode("parental_consent", "parental consent required"),
			},
			Edges: []types.Edge{
				{Source: "user", Target: "age_check"},
				{Source: "user", Target: "country_check"},
				{Source: "age_check", Target: "country_check", SourceHandle: handle("age_check", "true")},
				{Source: "country_check", Target: "special_offer", SourceHandle: handle("country_check", "true")},
				{Source: "country_check", Target: "standard_offer", SourceHandle: handle("country_check", "false")},
				{Source: "age_check", Target: "parental_consent", SourceHandle: handle("age_check", "false")},
			},
		}

		runAndReport(payload, []string{"special_offer", "standard_offer", "parental_consent"})
	}
}

func runAndReport(payload types.Payload, candidates []string) {
	eng, err := engine.New(mustMarshal(payload))
	if err != nil {
		fmt.Printf("  error creating engine: %v\n", err)
		return
	}

	result, err := eng.Execute()
	if err != nil {
		fmt.Printf("  execution error: %v\n", err)
		return
	}

	for _, nodeID := range candidates {
		if raw, executed := result.NodeResults[nodeID]; executed {
			if m, ok := raw.(map[string]interface{}); ok {
				fmt.Printf("  ran %s: %v\n", nodeID, m["text"])
				continue
			}
			fmt.Printf("  ran %s: %v\n", nodeID, raw)
		} else {
			fmt.Printf("  skipped %s (not in active path)\n", nodeID)
		}
	}
	fmt.Println()
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshaling JSON: %v\n", err)
		os.Exit(1)
	}
	return b
}
