package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Fund-Investment-Results/internal/api/request"
	"github.com/ndewijer/Fund-Investment-Results/internal/apperrors"
)

// ValidateImportInvestments checks the structure of an investment import.
// Per-order problems such as bad dates are reported per order by the import itself.
func ValidateImportInvestments(req request.ImportInvestmentsRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Owner) == "" {
		errors["Owner"] = apperrors.ErrInvalidOwner.Error()
	}
	if len(req.Investments) == 0 {
		errors["Investments"] = apperrors.ErrEmptyRequest.Error()
	}
	for name, inv := range req.Investments {
		if strings.TrimSpace(name) == "" {
			errors["Investments"] = "investment name cannot be empty"
			continue
		}
		if len(inv.Funds) == 0 {
			errors[fmt.Sprintf("Investments.%s.Funds", name)] = "at least one fund is required"
		}
		for fundID := range inv.Funds {
			if strings.TrimSpace(fundID) == "" {
				errors[fmt.Sprintf("Investments.%s.Funds", name)] = apperrors.ErrInvalidFundID.Error()
			}
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
