package server

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tarmac-project/customer-lookup/customer"
)

const toolDescription = `
	Look up customers in the [SalesLT].[Customer] table by exact first, middle and last name.
	MiddleName is required but may be an empty string or null when the customer has none.
	Returns every column of each matching row, in table column order.
	A database problem yields an empty list rather than an error.
`

// LookupInput is the argument object of the lookup tool.
type LookupInput struct {
	FirstName  string  `json:"FirstName" jsonschema:"customer first name, matched exactly"`
	MiddleName *string `json:"MiddleName" jsonschema:"customer middle name; empty or null for none"`
	LastName   string  `json:"LastName" jsonschema:"customer last name, matched exactly"`
}

// LookupOutput is the structured result of the lookup tool.
type LookupOutput struct {
	Columns []string         `json:"columns"`
	Records []map[string]any `json:"records"`
	Count   int              `json:"count"`
}

func (s *Server) registerLookupTool() error {
	in, err := jsonschema.For[LookupInput](nil)
	if err != nil {
		return fmt.Errorf("failed to create lookup input schema: %w", err)
	}
	out, err := jsonschema.For[LookupOutput](nil)
	if err != nil {
		return fmt.Errorf("failed to create lookup output schema: %w", err)
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:         s.cfg.ToolName,
		Description:  toolDescription,
		InputSchema:  in,
		OutputSchema: out,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, req LookupInput) (*mcp.CallToolResult, LookupOutput, error) {
		res, err := s.handleLookup(ctx, req)
		if err != nil {
			return nil, LookupOutput{}, err
		}
		return nil, res, nil
	})
	return nil
}

func (s *Server) handleLookup(ctx context.Context, req LookupInput) (LookupOutput, error) {
	s.log.Debug("server: running customer lookup tool")

	rs, err := s.cfg.Lookup.Invoke(ctx, customer.Query{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
	}, s.cfg.Connection)
	if err != nil {
		return LookupOutput{}, fmt.Errorf("failed to look up customer: %w", err)
	}

	out := LookupOutput{
		Columns: []string{},
		Records: rs.Maps(),
		Count:   len(rs),
	}
	if len(rs) > 0 {
		out.Columns = rs[0].Columns()
	}
	return out, nil
}
