package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/scout-api/internal/model"
)

func TestEnrichTargets_SkipsWebsiteless(t *testing.T) {
	companies := []model.Company{
		{Name: "Acme", Website: "https://acme.example"},
		{Name: "Stealth"},
		{Name: "Beta", Website: "https://beta.example"},
	}

	targets := enrichTargets(companies)

	assert.Len(t, targets, 2)
	for _, c := range targets {
		assert.NotEmpty(t, c.Website)
	}
}

func TestEnrichTargets_Empty(t *testing.T) {
	assert.Empty(t, enrichTargets(nil))
	assert.Empty(t, enrichTargets([]model.Company{{Name: "Stealth"}}))
}
