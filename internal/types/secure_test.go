package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

const testSecret = "Bearer magento-token-12345"

func TestSecretString_String(t *testing.T) {
	s := SecretString(testSecret)

	result := s.String()

	if result != redactedPlaceholder {
		t.Errorf("String() = %q, want %q", result, redactedPlaceholder)
	}
	if strings.Contains(result, testSecret) {
		t.Errorf("String() leaked the raw secret value")
	}
}

func TestSecretString_Sprintf(t *testing.T) {
	s := SecretString(testSecret)

	// %s uses the String() method via the fmt.Stringer interface.
	result := fmt.Sprintf("token=%s", s)

	if strings.Contains(result, testSecret) {
		t.Errorf("fmt.Sprintf(%%s) leaked the raw secret: %s", result)
	}
	expected := "token=" + redactedPlaceholder
	if result != expected {
		t.Errorf("fmt.Sprintf(%%s) = %q, want %q", result, expected)
	}
}

func TestSecretString_SprintfV(t *testing.T) {
	s := SecretString(testSecret)

	// %v also uses the String() method when the Stringer interface is implemented.
	result := fmt.Sprintf("token=%v", s)

	if strings.Contains(result, testSecret) {
		t.Errorf("fmt.Sprintf(%%v) leaked the raw secret: %s", result)
	}
	expected := "token=" + redactedPlaceholder
	if result != expected {
		t.Errorf("fmt.Sprintf(%%v) = %q, want %q", result, expected)
	}
}

func TestSecretString_MarshalJSON(t *testing.T) {
	s := SecretString(testSecret)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}

	result := string(data)
	if strings.Contains(result, testSecret) {
		t.Errorf("MarshalJSON leaked the raw secret: %s", result)
	}

	expected := `"` + redactedPlaceholder + `"`
	if result != expected {
		t.Errorf("MarshalJSON = %q, want %q", result, expected)
	}
}

func TestSecretString_MarshalJSON_InStruct(t *testing.T) {
	type creds struct {
		AuthToken SecretString `json:"auth_token"`
		Name      string       `json:"name"`
	}

	c := creds{
		AuthToken: SecretString(testSecret),
		Name:      "magento",
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("json.Marshal returned error: %v", err)
	}

	result := string(data)
	if strings.Contains(result, testSecret) {
		t.Errorf("json.Marshal of struct leaked the raw secret: %s", result)
	}
	if !strings.Contains(result, redactedPlaceholder) {
		t.Errorf("json.Marshal of struct did not contain redacted placeholder: %s", result)
	}
}

func TestSecretString_Unmask(t *testing.T) {
	s := SecretString(testSecret)

	if s.Unmask() != testSecret {
		t.Errorf("Unmask() = %q, want %q", s.Unmask(), testSecret)
	}
}

func TestSecretString_EmptyValue(t *testing.T) {
	s := SecretString("")

	if s.String() != redactedPlaceholder {
		t.Errorf("String() on empty SecretString = %q, want %q", s.String(), redactedPlaceholder)
	}
	if s.Unmask() != "" {
		t.Errorf("Unmask() on empty SecretString = %q, want empty string", s.Unmask())
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("MarshalJSON on empty SecretString returned error: %v", err)
	}
	expected := `"` + redactedPlaceholder + `"`
	if string(data) != expected {
		t.Errorf("MarshalJSON on empty SecretString = %q, want %q", string(data), expected)
	}
}
