package domain

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Credentials identify a wallet towards the wallet backend.
type Credentials struct {
	GUID      string `json:"guid"`
	SharedKey string `json:"sharedKey"`
	Password  string `json:"password"`
}

// NewCredentials returns credentials with random guid and shared key.
func NewCredentials(password string) (*Credentials, error) {
	c := &Credentials{
		GUID:      uuid.New().String(),
		SharedKey: uuid.New().String(),
		Password:  password,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ParseCredentials parses the plaintext of a walletCredentials entry.
func ParseCredentials(plaintext string) (*Credentials, error) {
	c := &Credentials{}
	if err := json.Unmarshal([]byte(plaintext), c); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPayload, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPayload, err)
	}
	return c, nil
}

func (c Credentials) Validate() error {
	if c.GUID == "" || c.SharedKey == "" || c.Password == "" {
		return ErrNullCredentials
	}
	return nil
}

// Serialize returns the JSON plaintext of the walletCredentials entry
func (c Credentials) Serialize() string {
	buf, _ := json.Marshal(c)
	return string(buf)
}
