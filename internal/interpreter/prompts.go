package interpreter

import (
	"encoding/json"
	"fmt"
	"strings"
)

const statementPrompt = `You are an expert financial data extractor. Extract every transaction and the key account metadata from the attached bank statement.

Return STRICT JSON only: one object, no comments, no Markdown, no code fences.

The object MUST contain:
- "transactions": an array of objects, each with
  - "date": string, formatted YYYY-MM-DD when the date can be determined, otherwise exactly as printed
  - "description": string (use "" when the statement shows none)
  - "amount": number, negative for expenses and debits, positive for income and credits%s

The object MAY contain a "metadata" object with any of these string fields, only when printed on the statement:
- "accountHolderName"
- "accountNumber" (if partially redacted, the visible part)
- "bankName"
- "statementPeriod" (for example "Jan 1, 2023 - Jan 31, 2023")
- "bankAddress"
Omit a metadata field entirely when it is not found. Never emit null or empty strings.

If some transaction data is unclear, extract what is available.`

const directionRule = `
  - "direction": "debit" when money left the account, "credit" when it came in`

const categorizePrompt = `You are a personal finance expert. Assign each bank transaction below to exactly one of these categories: %s.

Use the category names exactly as written. Do not invent categories.%s

Transactions (JSON):
%s

Return STRICT JSON only: an object {"transactions": [...]} holding one entry per input transaction, in the same order, each with the original "date", "description" and "amount" plus the assigned "category" string.`

const summarizePrompt = `You are an expert financial analyst. Analyze the bank transactions below for the month of %s and summarize the account holder's spending habits.

Transactions:
%s

Return STRICT JSON only: an object with
- "totalExpenses": number, the total of all expenses for the month as a positive value
- "topSpendingCategories": string
- "unusualTransactions": string
- "summary": string`

func buildStatementPrompt(requestDirection bool) string {
	extra := ""
	if requestDirection {
		extra = directionRule
	}
	return fmt.Sprintf(statementPrompt, extra)
}

func buildCategorizePrompt(req CategorizeRequest) (string, error) {
	payload, err := json.MarshalIndent(req.Transactions, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode transactions: %w", err)
	}
	return fmt.Sprintf(categorizePrompt, strings.Join(req.Categories, ", "), hintLines(req), payload), nil
}

func hintLines(req CategorizeRequest) string {
	if len(req.Hints) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nKeyword hints:")
	for _, category := range req.Categories {
		if keywords := req.Hints[category]; len(keywords) > 0 {
			fmt.Fprintf(&b, "\n- %s: %s", category, strings.Join(keywords, ", "))
		}
	}
	return b.String()
}

func buildSummarizePrompt(req SummarizeRequest) string {
	return fmt.Sprintf(summarizePrompt, req.Month, req.Transactions)
}
