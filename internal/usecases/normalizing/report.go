package normalizing

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/outlet-dashboard-api/internal/domain"
	"github.com/vfg2006/outlet-dashboard-api/pkg/utils"
)

// Version entra na chave do cache; incrementar sempre que a lógica de normalização mudar
const Version = 3

const (
	KindSales      = "sales"
	KindServices   = "services"
	KindCategories = "categories"
)

// Motivos de descarte de linhas
const (
	reasonMissingValue  = "missing_required_value"
	reasonInvalidYear   = "invalid_year"
	reasonUnknownOutlet = "unknown_outlet"
)

// Options são os parâmetros que influenciam o resultado da normalização
type Options struct {
	Source       string   // Chave do arquivo de origem, usada apenas em logs e erros
	KnownOutlets []string // Quando informado, outlets fora da lista são descartados
}

func (o Options) knownOutlets() map[string]bool {
	if len(o.KnownOutlets) == 0 {
		return nil
	}
	known := make(map[string]bool, len(o.KnownOutlets))
	for _, outlet := range o.KnownOutlets {
		known[normalizeOutlet(outlet)] = true
	}
	return known
}

// Signature resume os parâmetros que alteram a saída (a origem não entra)
func (o Options) Signature() string {
	outlets := make([]string, 0, len(o.KnownOutlets))
	for _, outlet := range o.KnownOutlets {
		outlets = append(outlets, normalizeOutlet(outlet))
	}
	sort.Strings(outlets)
	return strconv.FormatUint(xxhash.Sum64String(strings.Join(outlets, "\x1f")), 16)
}

// Report resume uma passada de normalização
type Report struct {
	RunID            string         `json:"run_id"`
	Kind             string         `json:"kind"`
	Source           string         `json:"source"`
	RowsRead         int            `json:"rows_read"`
	RowsKept         int            `json:"rows_kept"`
	Skipped          map[string]int `json:"skipped"`
	UnknownMonths    int            `json:"unknown_months"`
	MissingValues    map[string]int `json:"missing_values"`
	InvalidDays      int            `json:"invalid_days"`
	MergedDuplicates int            `json:"merged_duplicates"`
}

func newReport(kind, source string) *Report {
	runID, err := utils.GenerateID()
	if err != nil {
		logrus.WithError(err).Warn("Erro ao gerar identificador da normalização")
	}

	return &Report{
		RunID:         runID,
		Kind:          kind,
		Source:        source,
		Skipped:       make(map[string]int),
		MissingValues: make(map[string]int),
	}
}

func (r *Report) skip(line int, field, reason string) {
	r.Skipped[reason]++
	logrus.WithFields(logrus.Fields{
		"run_id": r.RunID,
		"source": r.Source,
	}).WithError(&domain.RowError{Line: line, Field: field, Reason: reason}).
		Debug("Linha descartada na normalização")
}

func (r *Report) missing(field string) {
	r.MissingValues[field]++
}

// SkippedRows soma todas as linhas descartadas
func (r *Report) SkippedRows() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

// Log registra o resumo da normalização
func (r *Report) Log() {
	logrus.WithFields(logrus.Fields{
		"run_id":            r.RunID,
		"kind":              r.Kind,
		"source":            r.Source,
		"rows_read":         r.RowsRead,
		"rows_kept":         r.RowsKept,
		"rows_skipped":      r.SkippedRows(),
		"skipped":           r.Skipped,
		"unknown_months":    r.UnknownMonths,
		"missing_values":    r.MissingValues,
		"invalid_days":      r.InvalidDays,
		"merged_duplicates": r.MergedDuplicates,
	}).Info("Normalização concluída")
}
