package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/stake-plus/veritas/src/data"
	"github.com/stake-plus/veritas/src/factcheck"
)

// DomainSource says where the effective allow-list came from.
type DomainSource string

const (
	DomainsFromDatabase DomainSource = "database"
	DomainsFromFile     DomainSource = "file"
	DomainsBuiltIn      DomainSource = "built-in"
)

type domainFile struct {
	Domains []string `yaml:"domains"`
}

// ReadDomainFile parses a YAML document of the form `domains: [a.com, b.org]`.
func ReadDomainFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f domainFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Domains, nil
}

// LoadAllowlist builds the process-wide allow-list once. Precedence: active
// rows of the trusted_domains table, then the YAML file, then the built-in
// list. db may be nil and file may be empty.
func LoadAllowlist(db *gorm.DB, file string) (*factcheck.Allowlist, DomainSource, error) {
	if db != nil {
		domains, err := data.LoadTrustedDomains(db)
		if err != nil {
			return nil, "", fmt.Errorf("load trusted_domains: %w", err)
		}
		if len(domains) > 0 {
			al, err := factcheck.NewAllowlist(domains)
			return al, DomainsFromDatabase, err
		}
	}
	if file != "" {
		domains, err := ReadDomainFile(file)
		if err != nil {
			return nil, "", err
		}
		al, err := factcheck.NewAllowlist(domains)
		return al, DomainsFromFile, err
	}
	al, err := factcheck.NewAllowlist(factcheck.DefaultTrustedDomains)
	return al, DomainsBuiltIn, err
}
