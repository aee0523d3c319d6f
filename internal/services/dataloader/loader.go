package dataloader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"cashpulse/internal/models"
	"cashpulse/internal/services/classifier"
	"cashpulse/internal/services/storage"
)

// DataLoader reads ledgers from disk through storage, so sealed and plain
// files are handled the same way
type DataLoader struct {
	store                 *storage.Storage
	logger                *logrus.Logger
	FilteredTransferCount int
}

// columnMappings maps common bank export column names to our standard names
var columnMappings = map[string][]string{
	"Date": {
		"date", "data", "transaction date", "posted date", "post date",
		"posting date", "data lancamento", "data lançamento", "data da transacao",
	},
	"Description": {
		"description", "descricao", "descrição", "memo", "details", "payee",
		"merchant", "narrative", "historico", "histórico", "lancamento", "lançamento",
	},
	"Amount": {
		"amount", "valor", "value", "transaction amount", "sum", "valor (r$)",
	},
	"Kind": {
		"kind", "tipo", "type", "transaction type", "natureza",
	},
	"Category": {
		"category", "categoria", "category name",
	},
	"Debit": {
		"debit", "debito", "débito", "withdrawal", "withdrawals", "money out",
		"saida", "saída",
	},
	"Credit": {
		"credit", "credito", "crédito", "deposit", "deposits", "money in",
		"entrada",
	},
	"ID": {
		"id", "transaction id", "identificador",
	},
}

// New creates a new DataLoader
func New(store *storage.Storage, logger *logrus.Logger) *DataLoader {
	return &DataLoader{
		store:  store,
		logger: logger,
	}
}

// normalizeColumnName maps a bank export column name to our standard name
func normalizeColumnName(col string) string {
	lower := strings.ToLower(strings.TrimSpace(col))
	for standard, variants := range columnMappings {
		for _, variant := range variants {
			if lower == variant {
				return standard
			}
		}
	}
	return strings.TrimSpace(col)
}

// buildColumnIndex creates a normalized column index from CSV headers
func buildColumnIndex(header []string) map[string]int {
	colIndex := make(map[string]int)
	for i, col := range header {
		normalized := normalizeColumnName(strings.TrimPrefix(col, "\ufeff"))
		// First match wins
		if _, exists := colIndex[normalized]; !exists {
			colIndex[normalized] = i
		}
	}
	return colIndex
}

// LoadLedger reads a JSON analysis request from path
func (dl *DataLoader) LoadLedger(path string) (*models.AnalysisRequest, error) {
	data, err := dl.store.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}

	req, err := DecodeRequest(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error decoding ledger %s: %w", path, err)
	}

	dl.logger.WithFields(logrus.Fields{
		"path":         path,
		"transactions": len(req.Transactions),
		"debts":        len(req.Debts),
	}).Debug("Loaded ledger")
	return req, nil
}

// LoadCSVFile reads raw transaction records from a bank CSV export
func (dl *DataLoader) LoadCSVFile(path string) ([]map[string]any, error) {
	file, err := dl.store.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := dl.LoadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dl.logger.WithFields(logrus.Fields{
		"path":         path,
		"transactions": len(records),
		"filtered":     dl.FilteredTransferCount,
	}).Info("Loaded CSV export")
	return records, nil
}

// LoadCSV converts CSV rows into raw records keyed like the JSON contract
// so they go through the same normalization as API requests. Rows without a
// kind column are classified from the amount sign and description.
func (dl *DataLoader) LoadCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}
	if len(header) == 1 && strings.Contains(header[0], ";") {
		return nil, fmt.Errorf("semicolon-separated exports are not supported, re-export with commas")
	}

	colIndex := buildColumnIndex(header)

	_, hasAmount := colIndex["Amount"]
	_, hasDebit := colIndex["Debit"]
	_, hasCredit := colIndex["Credit"]
	useDebitCredit := !hasAmount && (hasDebit || hasCredit)

	if _, ok := colIndex["Date"]; !ok {
		return nil, fmt.Errorf("missing required column: Date (tried: %v)", columnMappings["Date"])
	}
	if !hasAmount && !useDebitCredit {
		return nil, fmt.Errorf("missing required column: Amount or Debit/Credit (tried: %v)", columnMappings["Amount"])
	}

	var records []map[string]any
	seen := make(map[string]bool)
	dl.FilteredTransferCount = 0
	lineNum := 1

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			dl.logger.WithError(err).Warnf("Skipping unreadable line %d", lineNum)
			continue
		}

		get := func(col string) string {
			if idx, ok := colIndex[col]; ok && idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		dateStr := get("Date")
		if _, err := ParseDate(dateStr); err != nil {
			dl.logger.Warnf("Could not parse date '%s' on line %d", dateStr, lineNum)
			continue
		}

		description := get("Description")
		category := get("Category")
		if classifier.IsInternalTransfer(description) {
			dl.FilteredTransferCount++
			continue
		}

		var signed float64
		if useDebitCredit {
			signed, err = parseDebitCredit(get("Debit"), get("Credit"))
		} else {
			signed, err = parseSigned(get("Amount"))
		}
		if err != nil {
			dl.logger.WithError(err).Warnf("Skipping line %d", lineNum)
			continue
		}

		kind := get("Kind")
		if _, ok := classifier.NormalizeKind(kind); !ok {
			kind = string(classifier.InferKind(description, category, signed))
		}

		record := map[string]any{
			"data":      dateStr,
			"tipo":      kind,
			"valor":     abs(signed),
			"categoria": category,
			"descricao": description,
		}
		if id := get("ID"); id != "" {
			record["id"] = id
		}

		key := fmt.Sprintf("%s|%s|%.2f|%s", record["data"], kind, signed, strings.ToLower(description))
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, record)
	}

	if dl.FilteredTransferCount > 0 {
		dl.logger.Infof("Filtered %d internal transfers", dl.FilteredTransferCount)
	}
	return records, nil
}

// parseSigned parses an amount column keeping its sign
func parseSigned(s string) (float64, error) {
	d, err := parseAmountString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// parseDebitCredit combines Debit and Credit columns into a single amount.
// Credits are positive, debits are negative.
func parseDebitCredit(debitStr, creditStr string) (float64, error) {
	var amount float64

	if creditStr != "" {
		credit, err := parseSigned(creditStr)
		if err != nil {
			return 0, err
		}
		if credit != 0 {
			amount = abs(credit)
		}
	}

	if debitStr != "" {
		debit, err := parseSigned(debitStr)
		if err != nil {
			return 0, err
		}
		if debit != 0 {
			amount = -abs(debit)
		}
	}

	return amount, nil
}

// abs returns the absolute value of a float64
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// DecodeRequest decodes a JSON analysis request keeping numbers exact
func DecodeRequest(r io.Reader) (*models.AnalysisRequest, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var req models.AnalysisRequest
	if err := dec.Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
