package handler

import "github.com/sillicon-village/backoffice-bfa-go/internal/domain"

// ============================================================
// Presentation metadata
// ============================================================
// Labels, signs and colors are a frontend concern; they live here so the
// core services stay free of display logic.

// txDisplay is the presentation metadata for one transaction type.
type txDisplay struct {
	Label string `json:"label"`
	Sign  string `json:"sign"`
	Color string `json:"color"`
}

var txDisplayByType = map[domain.TransactionType]txDisplay{
	domain.TxDeposit:          {Label: "Depósito", Sign: "+", Color: "#27ae60"},
	domain.TxWithdrawal:       {Label: "Saque", Sign: "-", Color: "#e74c3c"},
	domain.TxTransferSent:     {Label: "Transferência Enviada", Sign: "-", Color: "#f39c12"},
	domain.TxTransferReceived: {Label: "Transferência Recebida", Sign: "+", Color: "#3498db"},
}

var accountTypeLabels = map[domain.AccountType]string{
	domain.AccountChecking: "Conta Corrente",
	domain.AccountSavings:  "Conta Poupança",
	domain.AccountPayroll:  "Conta Salário",
}

// displayFor returns the presentation metadata for a transaction type,
// falling back to a neutral entry for unknown types.
func displayFor(t domain.TransactionType) txDisplay {
	if d, ok := txDisplayByType[t]; ok {
		return d
	}
	sign := "-"
	if t.Credit() {
		sign = "+"
	}
	return txDisplay{Label: string(t), Sign: sign, Color: "#7f8c8d"}
}

// accountTypeLabel returns the human-readable account type name.
func accountTypeLabel(t domain.AccountType) string {
	if label, ok := accountTypeLabels[t]; ok {
		return label
	}
	return "Desconhecido"
}
