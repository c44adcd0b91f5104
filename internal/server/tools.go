package server

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	sym "github.com/njchilds90/gosymcore"
	"github.com/njchilds90/gosymcore/internal/batch"
	"github.com/njchilds90/gosymcore/internal/exprjson"
)

// ToolRequest names a tool and its parameters. Expression parameters
// use the exprjson object form.
type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// ToolResponse carries either a result or an error.
type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	// Code classifies Error: bad_request, domain_error, not_implemented,
	// division_by_zero or limit_exceeded.
	Code string `json:"code,omitempty"`
}

// ToolSpec describes one tool for agent registration.
type ToolSpec struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Required    []string          `json:"required"`
	Params      map[string]string `json:"params"`
}

// ToolSpecs is served by GET /v1/schema.
var ToolSpecs = []ToolSpec{
	ts("canonicalize", "Decode and canonicalize an expression", []string{"expr"}, map[string]string{"expr": "object"}),
	ts("expand", "Distribute products and expand integer powers of sums", []string{"expr"}, map[string]string{"expr": "object"}),
	ts("diff", "First derivative d/dvar", []string{"expr", "var"}, map[string]string{"expr": "object", "var": "string"}),
	ts("diffn", "nth derivative. Requires n (int)", []string{"expr", "var", "n"}, map[string]string{"expr": "object", "var": "string", "n": "integer"}),
	ts("subs", "Substitute expressions for symbols simultaneously", []string{"expr", "values"}, map[string]string{"expr": "object", "values": "object"}),
	ts("eval", "Evaluate a symbol-free expression to a float", []string{"expr"}, map[string]string{"expr": "object"}),
	ts("free_symbols", "Return free symbol names", []string{"expr"}, map[string]string{"expr": "object"}),
}

func ts(name, desc string, required []string, params map[string]string) ToolSpec {
	return ToolSpec{Name: name, Description: desc, Required: required, Params: params}
}

// Tools lists the tool names HandleToolCall accepts.
var Tools = toolNames(ToolSpecs)

func toolNames(specs []ToolSpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}

const codeBadRequest = "bad_request"

// errorResponse classifies err into a ToolResponse.
func errorResponse(err error) ToolResponse {
	code := codeBadRequest
	var se *sym.Error
	switch {
	case errors.As(err, &se):
		switch se.Kind {
		case sym.DomainError:
			code = "domain_error"
		case sym.NotImplemented:
			code = "not_implemented"
		case sym.DivisionByZero:
			code = "division_by_zero"
		}
	case errors.Is(err, batch.ErrLimit):
		code = "limit_exceeded"
	}
	return ToolResponse{Error: err.Error(), Code: code}
}

func respond(e sym.Basic) ToolResponse {
	return ToolResponse{Result: exprjson.Encode(e), String: e.String()}
}

// HandleToolCall runs one tool request.
func (s *Server) HandleToolCall(ctx context.Context, req ToolRequest) ToolResponse {
	getExpr := func(key string) (sym.Basic, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, errors.Errorf("missing param: %s", key)
		}
		val, ok := v.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("invalid type for param %s", key)
		}
		return exprjson.Decode(val)
	}
	getSymbol := func(key string) (*sym.Symbol, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, errors.Errorf("missing param: %s", key)
		}
		name, ok := v.(string)
		if !ok || name == "" {
			return nil, errors.Errorf("param %s must be a non-empty string", key)
		}
		return sym.S(name), nil
	}
	getExprMap := func(key string) (*sym.Dict[sym.Basic], error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, errors.Errorf("missing param: %s", key)
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("param %s must be an object of symbol names to expressions", key)
		}
		d := sym.NewDict[sym.Basic](len(raw))
		for name, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, errors.Errorf("param %s[%q] must be an expression object", key, name)
			}
			e, err := exprjson.Decode(m)
			if err != nil {
				return nil, errors.Wrapf(err, "param %s[%q]", key, name)
			}
			d.Set(sym.S(name), e)
		}
		return d, nil
	}

	switch req.Tool {
	case "canonicalize":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		return respond(e)

	case "expand":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		res, err := s.runner.Expand(ctx, []sym.Basic{e})
		if err != nil {
			return errorResponse(err)
		}
		if res[0].Err != nil {
			return errorResponse(res[0].Err)
		}
		return respond(res[0].Value)

	case "diff":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		x, err := getSymbol("var")
		if err != nil {
			return errorResponse(err)
		}
		d, err := sym.Diff(e, x)
		if err != nil {
			return errorResponse(err)
		}
		return respond(d)

	case "diffn":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		x, err := getSymbol("var")
		if err != nil {
			return errorResponse(err)
		}
		nF, ok := req.Params["n"].(float64)
		if !ok {
			return errorResponse(errors.New("param n must be a number"))
		}
		n := int(nF)
		if n < 0 {
			return errorResponse(errors.New("param n must be >= 0"))
		}
		d, err := sym.DiffN(e, x, n)
		if err != nil {
			return errorResponse(err)
		}
		return respond(d)

	case "subs":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		m, err := getExprMap("values")
		if err != nil {
			return errorResponse(err)
		}
		r, err := sym.SubsDict(e, m)
		if err != nil {
			return errorResponse(err)
		}
		return respond(r)

	case "eval":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		f, err := sym.EvalFloat(e)
		if err != nil {
			return errorResponse(err)
		}
		return ToolResponse{Result: f, String: sym.NewRealDouble(f).String()}

	case "free_symbols":
		e, err := getExpr("expr")
		if err != nil {
			return errorResponse(err)
		}
		syms := sym.FreeSymbols(e)
		names := make([]string, len(syms))
		for i, x := range syms {
			names[i] = x.Name()
		}
		return ToolResponse{Result: names, String: fmt.Sprint(names)}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool), Code: codeBadRequest}
}
