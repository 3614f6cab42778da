package aws

import (
	"context"
	"fmt"
	"strings"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/goccy/go-json"
)

// SecretValueAPI is the part of the Secrets Manager client the reader calls.
type SecretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretReader resolves secret references and remembers every secret it
// fetched for the life of the process.
type SecretReader struct {
	api    SecretValueAPI
	mu     sync.Mutex
	values map[string]string
}

func NewSecretReader(cfg sdkaws.Config) *SecretReader {
	return NewSecretReaderWithAPI(secretsmanager.NewFromConfig(cfg))
}

func NewSecretReaderWithAPI(api SecretValueAPI) *SecretReader {
	return &SecretReader{api: api, values: make(map[string]string)}
}

// Lookup resolves ref. A plain name returns the whole secret string;
// "name#key" reads key from a secret stored as a JSON object.
func (r *SecretReader) Lookup(ctx context.Context, ref string) (string, error) {
	name, key, hasKey := strings.Cut(ref, "#")

	raw, err := r.secret(ctx, name)
	if err != nil {
		return "", err
	}
	if !hasKey {
		return raw, nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", fmt.Errorf("secret %s is not a JSON object: %w", name, err)
	}
	v, ok := fields[key].(string)
	if !ok {
		return "", fmt.Errorf("secret %s has no string key %q", name, key)
	}
	return v, nil
}

func (r *SecretReader) secret(ctx context.Context, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.values[name]; ok {
		return v, nil
	}

	out, err := r.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(name)})
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}
	r.values[name] = *out.SecretString
	return *out.SecretString, nil
}
