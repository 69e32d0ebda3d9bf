package render

import (
	"encoding/json"
	"fmt"

	"github.com/eugenenazirov/sizepack/internal/optimizer"
)

// Document is the wire form of an optimizer.Result with amounts fixed to two decimals.
type Document struct {
	Current         ReportDocument           `json:"current"`
	Optimized       ReportDocument           `json:"optimized"`
	Recommendations []RecommendationDocument `json:"recommendations"`
	TotalSavings    string                   `json:"totalSavings"`
}

// ReportDocument is the wire form of an optimizer.Report.
type ReportDocument struct {
	Items []LineItemDocument `json:"items"`
	Total string             `json:"total"`
}

// LineItemDocument is the wire form of an optimizer.LineItem.
type LineItemDocument struct {
	Size       string `json:"size"`
	Packs      int    `json:"packs"`
	LooseUnits int    `json:"looseUnits"`
	Cost       string `json:"cost"`
}

// RecommendationDocument is the wire form of an optimizer.Recommendation.
type RecommendationDocument struct {
	Size            string `json:"size"`
	UnitsToComplete int    `json:"unitsToComplete"`
	Savings         string `json:"savings"`
}

// NewDocument converts result into its wire form.
func NewDocument(result optimizer.Result) Document {
	recs := make([]RecommendationDocument, 0, len(result.Recommendations))
	for _, rec := range result.Recommendations {
		recs = append(recs, RecommendationDocument{
			Size:            string(rec.Size),
			UnitsToComplete: rec.UnitsToComplete,
			Savings:         money(rec.Savings),
		})
	}
	return Document{
		Current:         newReportDocument(result.Current),
		Optimized:       newReportDocument(result.Optimized),
		Recommendations: recs,
		TotalSavings:    money(result.TotalSavings()),
	}
}

func newReportDocument(report optimizer.Report) ReportDocument {
	items := make([]LineItemDocument, 0, len(report.Items))
	for _, item := range report.Items {
		items = append(items, LineItemDocument{
			Size:       string(item.Size),
			Packs:      item.Packs,
			LooseUnits: item.LooseUnits,
			Cost:       money(item.Cost),
		})
	}
	return ReportDocument{Items: items, Total: money(report.Total)}
}

// JSONRenderer renders results as indented JSON documents.
type JSONRenderer struct{}

func (JSONRenderer) Render(result optimizer.Result) (string, error) {
	data, err := json.MarshalIndent(NewDocument(result), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(data) + "\n", nil
}
