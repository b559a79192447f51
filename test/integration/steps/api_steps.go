//go:build integration

package steps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func registerAPISteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Step(`^the API server is running$`, tc.theAPIServerIsRunning)
	ctx.Step(`^I am authenticated$`, tc.iAmAuthenticated)
	ctx.Step(`^I am authenticated as another user$`, tc.iAmAuthenticated)
	ctx.Step(`^I am authenticated with an expired token$`, tc.iAmAuthenticatedWithAnExpiredToken)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, tc.iSetHeaderTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, tc.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, tc.iSendARequestToWithBody)
	ctx.Step(`^I save the response field "([^"]*)" as "([^"]*)"$`, tc.iSaveTheResponseFieldAs)
}

func registerResponseSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response should be JSON$`, tc.theResponseShouldBeJSON)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should start with "([^"]*)"$`, tc.theResponseFieldShouldStartWith)
	ctx.Step(`^the response field "([^"]*)" should exist$`, tc.theResponseFieldShouldExist)
	ctx.Step(`^the response field "([^"]*)" should not exist$`, tc.theResponseFieldShouldNotExist)
	ctx.Step(`^the response field "([^"]*)" should have (\d+) items?$`, tc.theResponseFieldShouldHaveItems)
}

func (tc *TestContext) theAPIServerIsRunning() error {
	resp, err := http.Get(tc.server.URL + "/health")
	if err != nil {
		return fmt.Errorf("server not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}

func (tc *TestContext) iAmAuthenticated() error {
	tc.userID = uuid.New()
	token, err := generateToken(tc.userID, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	tc.accessToken = token
	tc.saved["user_id"] = tc.userID.String()
	tc.requestHeaders["Authorization"] = "Bearer " + token
	return nil
}

func (tc *TestContext) iAmAuthenticatedWithAnExpiredToken() error {
	tc.userID = uuid.New()
	token, err := generateToken(tc.userID, time.Now().Add(-time.Hour))
	if err != nil {
		return err
	}

	tc.accessToken = token
	tc.requestHeaders["Authorization"] = "Bearer " + token
	return nil
}

func (tc *TestContext) iSetHeaderTo(header, value string) error {
	tc.requestHeaders[header] = tc.replacePlaceholders(value)
	return nil
}

func (tc *TestContext) iSendARequestTo(method, endpoint string) error {
	return tc.executeRequest(method, endpoint, nil)
}

func (tc *TestContext) iSendARequestToWithBody(method, endpoint string, body *godog.DocString) error {
	payload := tc.replacePlaceholders(body.Content)
	if !json.Valid([]byte(payload)) {
		return fmt.Errorf("request body is not valid JSON: %s", payload)
	}
	return tc.executeRequest(method, endpoint, []byte(payload))
}

func (tc *TestContext) executeRequest(method, endpoint string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, tc.server.URL+tc.replacePlaceholders(endpoint), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if value, err := tc.responseField("id"); err == nil {
		if id, ok := value.(string); ok {
			tc.saved["last_id"] = id
		}
	}
	return nil
}

func (tc *TestContext) iSaveTheResponseFieldAs(field, name string) error {
	value, err := tc.responseField(field)
	if err != nil {
		return err
	}
	tc.saved[name] = stringify(value)
	return nil
}

func (tc *TestContext) theResponseStatusShouldBe(expected int) error {
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func (tc *TestContext) theResponseShouldBeJSON() error {
	if !json.Valid(tc.responseBody) {
		return fmt.Errorf("response is not valid JSON: %s", string(tc.responseBody))
	}
	return nil
}

func (tc *TestContext) theResponseShouldContain(expected string) error {
	expected = tc.replacePlaceholders(expected)
	if !strings.Contains(string(tc.responseBody), expected) {
		return fmt.Errorf("expected response to contain %q, got: %s", expected, string(tc.responseBody))
	}
	return nil
}

func (tc *TestContext) theResponseFieldShouldBe(field, expected string) error {
	value, err := tc.responseField(field)
	if err != nil {
		return err
	}

	expected = tc.replacePlaceholders(expected)
	if actual := stringify(value); actual != expected {
		return fmt.Errorf("expected field %q to be %q, got %q", field, expected, actual)
	}
	return nil
}

func (tc *TestContext) theResponseFieldShouldStartWith(field, prefix string) error {
	value, err := tc.responseField(field)
	if err != nil {
		return err
	}

	prefix = tc.replacePlaceholders(prefix)
	if actual := stringify(value); !strings.HasPrefix(actual, prefix) {
		return fmt.Errorf("expected field %q to start with %q, got %q", field, prefix, actual)
	}
	return nil
}

func (tc *TestContext) theResponseFieldShouldExist(field string) error {
	value, err := tc.responseField(field)
	if err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("field %q is null", field)
	}
	return nil
}

func (tc *TestContext) theResponseFieldShouldNotExist(field string) error {
	value, err := tc.responseField(field)
	if err == nil && value != nil {
		return fmt.Errorf("expected field %q to be absent, got %v", field, value)
	}
	return nil
}

func (tc *TestContext) theResponseFieldShouldHaveItems(field string, count int) error {
	value, err := tc.responseField(field)
	if err != nil {
		return err
	}

	items, ok := value.([]any)
	if !ok {
		return fmt.Errorf("field %q is not an array: %v", field, value)
	}
	if len(items) != count {
		return fmt.Errorf("expected field %q to have %d items, got %d", field, count, len(items))
	}
	return nil
}

// responseField resolves a dot path such as "categories.0.spent" in the last response.
func (tc *TestContext) responseField(path string) (any, error) {
	var body any
	if err := json.Unmarshal(tc.responseBody, &body); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	current := body
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in response: %s", path, string(tc.responseBody))
			}
			current = value
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("invalid index %q in path %q", part, path)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("cannot descend into %q of path %q", part, path)
		}
	}
	return current, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	if reflect.TypeOf(value).Kind() == reflect.Map || reflect.TypeOf(value).Kind() == reflect.Slice {
		raw, _ := json.Marshal(value)
		return string(raw)
	}
	return fmt.Sprint(value)
}

func generateToken(userID uuid.UUID, expiresAt time.Time) (string, error) {
	issuedAt := expiresAt.Add(-2 * time.Hour)
	claims := jwt.MapClaims{
		"user_id":    userID.String(),
		"email":      "user-" + userID.String()[:8] + "@example.com",
		"token_type": "access",
		"exp":        expiresAt.Unix(),
		"iat":        issuedAt.Unix(),
		"nbf":        issuedAt.Unix(),
		"iss":        testJWTIssuer,
		"sub":        userID.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
