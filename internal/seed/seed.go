// Package seed ships a starter set of well-known companies for new
// deployments and demos.
package seed

import (
	"context"
	_ "embed"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/scout-api/internal/model"
	"github.com/sells-group/scout-api/internal/store"
)

//go:embed companies.yaml
var companiesYAML []byte

// Companies returns the embedded starter companies.
func Companies() ([]model.Company, error) {
	var companies []model.Company
	if err := yaml.Unmarshal(companiesYAML, &companies); err != nil {
		return nil, eris.Wrap(err, "seed: parse companies.yaml")
	}
	return companies, nil
}

// Apply replaces the store's companies with the embedded starter set.
func Apply(ctx context.Context, st store.Store) error {
	companies, err := Companies()
	if err != nil {
		return err
	}
	if err := st.ReplaceCompanies(ctx, companies); err != nil {
		return err
	}
	zap.L().Info("database seeded", zap.Int("companies", len(companies)))
	return nil
}
