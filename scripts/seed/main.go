// Command seed populates a running petcare API with a demo account and a
// handful of pets. It talks to the public HTTP surface only, so it works
// against any environment the caller can reach.
//
// Usage:
//
//	go run ./scripts/seed -base http://localhost:3000 -email demo@petcare.local -password demo-secret
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

type apiResponse struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type seedPet struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Age  int    `json:"age"`
}

var demoPets = []seedPet{
	{Name: "Rex", Type: "dog", Age: 3},
	{Name: "Whiskers", Type: "cat", Age: 5},
	{Name: "Smaug", Type: "lizard", Age: 1},
	{Name: "Polly", Type: "parrot", Age: 12},
}

func main() {
	base := flag.String("base", "http://localhost:3000", "base URL of the petcare API")
	email := flag.String("email", "demo@petcare.local", "email for the demo account")
	password := flag.String("password", "demo-secret", "password for the demo account")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	customToken, err := signupOrLogin(client, *base, *email, *password)
	if err != nil {
		log.Fatalf("obtain custom token: %v", err)
	}

	idToken, err := exchange(client, *base, customToken)
	if err != nil {
		log.Fatalf("exchange custom token: %v", err)
	}

	for _, pet := range demoPets {
		if err := createPet(client, *base, idToken, pet); err != nil {
			log.Fatalf("create pet %q: %v", pet.Name, err)
		}
		log.Printf("created pet %q (%s, age %d)", pet.Name, pet.Type, pet.Age)
	}

	log.Printf("seeded %d pets for %s", len(demoPets), *email)
}

// signupOrLogin creates the demo account, falling back to login when it
// already exists. Either path yields a custom token.
func signupOrLogin(client *http.Client, base, email, password string) (string, error) {
	resp, err := postJSON(client, base+"/api/v1/auth/signup", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     "Demo Owner",
	})
	if err != nil {
		return "", err
	}
	if resp.Error != nil && resp.Error.Code == "ALREADY_EXISTS" {
		resp, err = postJSON(client, base+"/api/v1/auth/login", "", map[string]string{
			"email": email,
		})
		if err != nil {
			return "", err
		}
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%s: %s", resp.Error.Code, resp.Error.Message)
	}

	token, _ := resp.Data["custom_token"].(string)
	if token == "" {
		return "", fmt.Errorf("response carried no custom_token")
	}
	return token, nil
}

func exchange(client *http.Client, base, customToken string) (string, error) {
	resp, err := postJSON(client, base+"/api/v1/auth/exchange", "", map[string]string{
		"custom_token": customToken,
	})
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%s: %s", resp.Error.Code, resp.Error.Message)
	}

	idToken, _ := resp.Data["id_token"].(string)
	if idToken == "" {
		return "", fmt.Errorf("response carried no id_token")
	}
	return idToken, nil
}

func createPet(client *http.Client, base, idToken string, pet seedPet) error {
	resp, err := postJSON(client, base+"/api/v1/pets", idToken, pet)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("%s: %s", resp.Error.Code, resp.Error.Message)
	}
	return nil
}

func postJSON(client *http.Client, url, bearer string, body any) (*apiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var decoded apiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return &decoded, nil
}
