package graphql

import (
	"strings"

	gqlerrors "github.com/graph-gophers/graphql-go/errors"

	pkgerrors "graphql-user-service/pkg/errors"
)

// resolverError unwraps coded errors so graphql-go finds their Extensions
// method. Other errors keep their message.
func resolverError(err error) error {
	if coded, ok := pkgerrors.AsCoded(err); ok {
		return coded
	}
	return err
}

// missingArgument reports whether e is a validation failure for a required
// argument or variable that was absent or null.
func missingArgument(e *gqlerrors.QueryError) bool {
	switch e.Rule {
	case "ProvidedRequiredArgumentsRule":
		return true
	case "VariablesOfCorrectType", "ArgumentsOfCorrectType":
		return strings.HasSuffix(e.Message, "found null.")
	}
	return false
}

// annotate adds the missing-field code to request errors that carry none.
func annotate(errs []*gqlerrors.QueryError) {
	for _, e := range errs {
		if e == nil || e.Extensions != nil {
			continue
		}
		if missingArgument(e) {
			e.Extensions = map[string]interface{}{"code": pkgerrors.CodeValidationMissingField}
		}
	}
}

// Codes lists the extension codes carried by errs, for metrics.
func Codes(errs []*gqlerrors.QueryError) []string {
	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		code, _ := e.Extensions["code"].(string)
		if code == "" {
			code = "INTERNAL"
		}
		codes = append(codes, code)
	}
	return codes
}
