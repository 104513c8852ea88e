package report

import "errors"

var ErrWorkbookGeneration = errors.New("failed to generate workbook")
