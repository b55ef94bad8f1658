package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	connectorUseCase "github.com/allisson/hrgate/internal/connector/usecase"
)

// RunCreateServiceToken issues a new inbound service token.
// The plain token value is printed exactly once and cannot be recovered
// afterwards; only its hash is stored. An empty scope grants access to every
// connector resource.
//
// Requirements: Database must be migrated and accessible.
func RunCreateServiceToken(
	ctx context.Context,
	tokenUC connectorUseCase.ServiceTokenUseCase,
	logger *slog.Logger,
	out io.Writer,
	name string,
	accountID int64,
	scopeStr string,
	note string,
	format string,
) error {
	logger.Info("creating service token", slog.String("name", name))

	input := &connectorUseCase.CreateServiceTokenInput{
		Name:      name,
		AccountID: accountID,
		Scope:     parseScope(scopeStr),
		Note:      note,
	}

	token, plainToken, err := tokenUC.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create service token: %w", err)
	}

	if format == "json" {
		scope := make([]string, 0, len(token.Scope))
		for _, kind := range token.Scope {
			scope = append(scope, string(kind))
		}
		result := map[string]interface{}{
			"id":    token.ID.String(),
			"name":  token.Name,
			"scope": scope,
			"token": plainToken,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(jsonBytes))
	} else {
		_, _ = fmt.Fprintf(out, "Service token created successfully\n")
		_, _ = fmt.Fprintf(out, "ID: %s\n", token.ID.String())
		_, _ = fmt.Fprintf(out, "Name: %s\n", token.Name)
		if len(token.Scope) > 0 {
			scope := make([]string, 0, len(token.Scope))
			for _, kind := range token.Scope {
				scope = append(scope, string(kind))
			}
			_, _ = fmt.Fprintf(out, "Scope: %s\n", strings.Join(scope, ", "))
		} else {
			_, _ = fmt.Fprintf(out, "Scope: unrestricted\n")
		}
		_, _ = fmt.Fprintf(out, "Token: %s\n", plainToken)
		_, _ = fmt.Fprintf(out, "\nStore this token now. It will not be shown again.\n")
	}

	logger.Info("service token created successfully",
		slog.String("token_id", token.ID.String()),
		slog.String("name", name),
	)

	return nil
}
