package sms

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// BankAliases maps one bank to the case-insensitive alias strings that appear
// in SMS sender ids ("VM-HDFCBK") and message bodies.
type BankAliases struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// DefaultBanks returns the built-in alias table covering the major national
// and digital-wallet issuers.
func DefaultBanks() []BankAliases {
	return []BankAliases{
		{Name: "HDFC Bank", Aliases: []string{"hdfcbk", "hdfc"}},
		{Name: "ICICI Bank", Aliases: []string{"icicib", "icici"}},
		{Name: "State Bank of India", Aliases: []string{"sbiinb", "sbicrd", "sbipsg", "sbi"}},
		{Name: "Axis Bank", Aliases: []string{"axisbk", "axis"}},
		{Name: "Kotak Mahindra Bank", Aliases: []string{"kotakb", "kotak"}},
		{Name: "Punjab National Bank", Aliases: []string{"pnbsms", "pnb"}},
		{Name: "Bank of Baroda", Aliases: []string{"bobtxn", "barodab", "bank of baroda"}},
		{Name: "IDFC First Bank", Aliases: []string{"idfcfb", "idfc"}},
		{Name: "Yes Bank", Aliases: []string{"yesbnk", "yes bank"}},
		{Name: "Paytm Payments Bank", Aliases: []string{"paytmb", "pytm", "paytm"}},
		{Name: "PhonePe", Aliases: []string{"phonpe", "phonepe"}},
		{Name: "Amazon Pay", Aliases: []string{"amznpay", "amazon pay"}},
	}
}

// bankFileConfig is the YAML shape of an alias table file.
type bankFileConfig struct {
	Banks []BankAliases `yaml:"banks"`
}

// LoadBanksFile reads a bank alias table from a YAML file.
func LoadBanksFile(path string) ([]BankAliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sms.LoadBanksFile: reading %q: %w", path, err)
	}
	return LoadBanks(data)
}

// LoadBanks parses a YAML alias table document.
func LoadBanks(data []byte) ([]BankAliases, error) {
	var cfg bankFileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("sms.LoadBanks: parsing yaml: %w", err)
	}
	if len(cfg.Banks) == 0 {
		return nil, fmt.Errorf("sms.LoadBanks: no banks defined")
	}
	for i, b := range cfg.Banks {
		if strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("sms.LoadBanks: bank %d has no name", i)
		}
		if len(b.Aliases) == 0 {
			return nil, fmt.Errorf("sms.LoadBanks: bank %q has no aliases", b.Name)
		}
	}
	return cfg.Banks, nil
}

// resolveBank matches text against the alias table, returning the bank name
// or "" when nothing matches.
func resolveBank(banks []BankAliases, text string) string {
	lower := strings.ToLower(text)
	for _, b := range banks {
		for _, alias := range b.Aliases {
			if strings.Contains(lower, strings.ToLower(alias)) {
				return b.Name
			}
		}
	}
	return ""
}
