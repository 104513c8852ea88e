package payroll

import "context"

type PayrollService interface {
	// GetStatement builds the statement of one employee for a "YYYY-MM" period.
	GetStatement(ctx context.Context, employeeID string, period string) (StatementResponse, error)

	// ListStatements builds statements for every employee with data in the period.
	ListStatements(ctx context.Context, period string) ([]StatementResponse, error)
}
