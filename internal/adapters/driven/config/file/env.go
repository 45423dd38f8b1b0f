package file

import (
	"errors"
	"io/fs"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// EnvBindings maps well-known environment variables to config keys.
// Provider API keys land under the provider name and are picked up by
// whichever section selects that provider.
var EnvBindings = map[string][]string{
	"MONGO_CONNECTION_STRING":        {"store.uri"},
	"QDRANT_API_KEY":                 {"store.api_key"},
	"GCP_PROJECT_ID":                 {"embedding.project", "answer.project"},
	"GCP_REGION":                     {"embedding.region", "answer.region"},
	"GCP_MODEL":                      {"answer.model"},
	"GOOGLE_APPLICATION_CREDENTIALS": {"embedding.credentials_file", "answer.credentials_file"},
	"OPENAI_API_KEY":                 {"openai.api_key"},
	"ANTHROPIC_API_KEY":              {"anthropic.api_key"},
	"UNIDOC_LICENSE_KEY":             {"ingest.pdf_license_key"},
	"PROCEDURES_PASSWORD":            {"access.password"},
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are skipped. Variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides config keys from EnvBindings using lookup.
// Pass os.LookupEnv in production. Returns the variables that were applied.
func (s *ConfigStore) ApplyEnv(lookup func(string) (string, bool)) []string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var applied []string
	for name, keys := range EnvBindings {
		val, ok := lookup(name)
		if !ok || val == "" {
			continue
		}
		for _, key := range keys {
			s.Override(key, val)
		}
		applied = append(applied, name)
	}
	sort.Strings(applied)
	return applied
}
