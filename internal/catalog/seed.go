package catalog

import (
	"context"
	"fmt"

	"github.com/caixaverso/investcore/internal/contracts"
	"github.com/caixaverso/investcore/pkg/database"
)

// SeedProducts is the reference product catalog: three products per risk
// level, covering the fixed-income and fund/equity type spectrum.
var SeedProducts = []contracts.Product{
	// Low risk
	{ID: 101, Name: "CDB Caixa Liquidez Diária", Type: "CDB", AnnualYield: 0.105, Risk: contracts.RiskLow, MinTermMonths: 6, LiquidityDays: 1},
	{ID: 102, Name: "Tesouro Selic 2029", Type: "Tesouro Direto", AnnualYield: 0.10, Risk: contracts.RiskLow, MinTermMonths: 1, LiquidityDays: 1},
	{ID: 103, Name: "LCI Caixa 1 Ano", Type: "LCI", AnnualYield: 0.11, Risk: contracts.RiskLow, MinTermMonths: 12, LiquidityDays: 60},

	// Medium risk
	{ID: 201, Name: "Tesouro IPCA+ 2035", Type: "Tesouro Direto", AnnualYield: 0.13, Risk: contracts.RiskMedium, MinTermMonths: 36, LiquidityDays: 30},
	{ID: 202, Name: "Fundo Renda Fixa Premium", Type: "Fundo de Renda Fixa", AnnualYield: 0.145, Risk: contracts.RiskMedium, MinTermMonths: 6, LiquidityDays: 30},
	{ID: 203, Name: "LCA Caixa 2 Anos", Type: "LCA", AnnualYield: 0.12, Risk: contracts.RiskMedium, MinTermMonths: 24, LiquidityDays: 180},

	// High risk
	{ID: 301, Name: "Fundo Multimercado XPTO", Type: "Fundo Multimercado", AnnualYield: 0.18, Risk: contracts.RiskHigh, MinTermMonths: 6, LiquidityDays: 30},
	{ID: 302, Name: "Fundo de Ações Brasil", Type: "Fundo de Ações", AnnualYield: 0.22, Risk: contracts.RiskHigh, MinTermMonths: 12, LiquidityDays: 30},
	{ID: 303, Name: "ETF BOVA11", Type: "Ações/ETF", AnnualYield: 0.25, Risk: contracts.RiskHigh, MinTermMonths: 1, LiquidityDays: 3},
}

// Seed inserts the reference catalog, updating rows that already exist
// so reseeding is safe.
func Seed(ctx context.Context, pool database.Pool) error {
	query := `
		INSERT INTO products (
			id, name, type, annual_yield, risk_level, min_term_months, liquidity_days
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			annual_yield = EXCLUDED.annual_yield,
			risk_level = EXCLUDED.risk_level,
			min_term_months = EXCLUDED.min_term_months,
			liquidity_days = EXCLUDED.liquidity_days
	`

	for _, p := range SeedProducts {
		_, err := pool.Exec(ctx, query,
			p.ID, p.Name, p.Type, p.AnnualYield, string(p.Risk), p.MinTermMonths, p.LiquidityDays,
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
	}

	return nil
}
