package wallet

import (
	"sharkfund/internal/models"
	"sharkfund/internal/repositories"

	"github.com/shopspring/decimal"
)

// ComputeSnapshot reduces per-type COMPLETED amount sums to the derived
// wallet aggregates. Missing types sum to zero. RESET_DEPOSIT rows
// carry negative amounts, so total_deposit nets to zero after a payout
// cycle; the max(0, ...) floor guards against a reset outrunning the
// deposits it compensates.
func ComputeSnapshot(totals []repositories.TypeTotal) Snapshot {
	sums := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		sums[t.Type] = sums[t.Type].Add(t.Total)
	}

	deposit := sums[models.TransactionTypeDeposit].Add(sums[models.TransactionTypeResetDeposit])
	if deposit.IsNegative() {
		deposit = decimal.Zero
	}

	totalIncome := sums[models.TransactionTypeIncome]
	referIncome := sums[models.TransactionTypeReferral]
	withdrawal := sums[models.TransactionTypeWithdrawal]

	return Snapshot{
		TotalDeposit:    deposit,
		TotalIncome:     totalIncome,
		ReferIncome:     referIncome,
		TotalWithdrawal: withdrawal,
		WalletBalance:   totalIncome.Add(referIncome).Sub(withdrawal),
	}
}

// SnapshotFromTransactions derives the same aggregates directly from
// ledger rows. Only COMPLETED rows contribute.
func SnapshotFromTransactions(txs []models.Transaction) Snapshot {
	totals := make([]repositories.TypeTotal, 0, len(txs))
	for _, tx := range txs {
		if tx.Status != models.TransactionStatusCompleted {
			continue
		}
		totals = append(totals, repositories.TypeTotal{Type: tx.Type, Total: tx.Amount})
	}
	return ComputeSnapshot(totals)
}
