package k4

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Personal identifies the filer on the SRU delivery.
type Personal struct {
	PersonNummer string `json:"personnummer"`
	Name         string `json:"namn"`
	Address      string `json:"adress"`
	PostalCode   string `json:"postnummer"`
	City         string `json:"postort"`
	Email        string `json:"email"`
	IncomeYear   string `json:"inkomstar"`
}

// OrgNr returns the personnummer in the dash-less form the SRU files use.
func (p Personal) OrgNr() string { return strings.ReplaceAll(p.PersonNummer, "-", "") }

// Validate checks that every field required on the filing is present. All
// missing fields are reported, not just the first. A personnummer of an
// unexpected length is only warned about since the agency validates it
// anyway.
func (p Personal) Validate() error {
	var errs error
	for _, field := range []struct{ name, value string }{
		{"personnummer", p.PersonNummer},
		{"namn", p.Name},
		{"adress", p.Address},
		{"postnummer", p.PostalCode},
		{"postort", p.City},
		{"email", p.Email},
		{"inkomstar", p.IncomeYear},
	} {
		if field.value == "" {
			errs = errors.Join(errs, fmt.Errorf("missing personal field %q", field.name))
		}
	}
	if errs != nil {
		return errs
	}
	if len(p.OrgNr()) != 12 {
		log.Printf("warning, personnummer format may be invalid: %s", p.PersonNummer)
	}
	return nil
}

// Config is the run configuration: who files, and at which rates foreign
// amounts convert to SEK.
type Config struct {
	Personal Personal `json:"personal"`
	FXRates  Rates    `json:"fx_rates"`
}

// DefaultConfig returns the placeholder configuration. The personal fields
// are obvious placeholders so that a filing generated from them is
// recognizably bogus; the income year defaults to last year.
func DefaultConfig() *Config {
	return &Config{
		Personal: Personal{
			PersonNummer: "YYYYMMDD-XXXX",
			Name:         "Förnamn Efternamn",
			Address:      "Gatan 1",
			PostalCode:   "XXXXX",
			City:         "Staden",
			Email:        "example@email.com",
			IncomeYear:   strconv.Itoa(time.Now().Year() - 1),
		},
		FXRates: Rates{"USD": 10.5, "CHF": 12.2, "SEK": 1.0, "EUR": 10.0},
	}
}

// LoadConfig reads the configuration file, falling back to the placeholder
// defaults with a warning when it is absent or unreadable.
func LoadConfig(path string) *Config {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, config file %q not found, using placeholder personal information; create one with init-config", path)
		return DefaultConfig()
	}
	if err != nil {
		log.Printf("warning, cannot read config file %q: %v, using defaults", path, err)
		return DefaultConfig()
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("warning, cannot parse config file %q: %v, using defaults", path, err)
		return DefaultConfig()
	}
	return &cfg
}

// WriteDefaultConfig writes the default configuration to path, unless a
// file already exists there.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %q already exists", path)
	}
	data, err := json.MarshalIndent(DefaultConfig(), "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
