package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"
)

// baseURL returns the base URL of the petcare API under test. Override with
// PETCARE_BASE_URL for non-local environments.
func baseURL() string {
	if url := os.Getenv("PETCARE_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:3000"
}

// uniqueEmail generates a unique email address to avoid test collisions.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@test.example.com", prefix, time.Now().UnixNano(), rand.Intn(100000))
}

// skipIfNotRunning performs a quick health check against the API.
// If it is unreachable, the test is skipped (not failed).
func skipIfNotRunning(t *testing.T) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL() + "/health/live")
	if err != nil {
		t.Skipf("petcare api not reachable at %s: %v", baseURL(), err)
	}
	resp.Body.Close()
}

// httpJSON performs an HTTP request with an optional JSON body and bearer
// token, returning the status code and decoded JSON body.
func httpJSON(t *testing.T, method, path, bearer string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, baseURL()+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}

	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response (status %d): %v\nbody: %s", resp.StatusCode, err, raw)
		}
	}
	return resp.StatusCode, decoded
}

// dataField extracts data.<key> from a decoded response body.
func dataField(t *testing.T, body map[string]any, key string) any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", body)
	}
	return data[key]
}

// stringField extracts data.<key> as a string and fails if absent or empty.
func stringField(t *testing.T, body map[string]any, key string) string {
	t.Helper()
	value, _ := dataField(t, body, key).(string)
	if value == "" {
		t.Fatalf("response data.%s is missing or empty: %v", key, body)
	}
	return value
}

// sessionFor signs a fresh account up and exchanges its custom token for a
// session token.
func sessionFor(t *testing.T, email, password string) string {
	t.Helper()

	status, body := httpJSON(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusCreated {
		t.Fatalf("signup returned %d: %v", status, body)
	}

	customToken := stringField(t, body, "custom_token")

	status, body = httpJSON(t, http.MethodPost, "/api/v1/auth/exchange", "", map[string]string{
		"custom_token": customToken,
	})
	if status != http.StatusOK {
		t.Fatalf("exchange returned %d: %v", status, body)
	}
	return stringField(t, body, "id_token")
}

// deleteAccount removes a test account, ignoring failures so cleanup never
// masks the test outcome.
func deleteAccount(t *testing.T, email string) {
	t.Helper()
	httpJSON(t, http.MethodDelete, "/api/v1/auth/delete", "", map[string]string{"email": email})
}
