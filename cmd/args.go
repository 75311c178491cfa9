package cmd

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/caspercppsdk/casper-cpp-sdk-sub000/cl"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/deploy"
	"github.com/caspercppsdk/casper-cpp-sdk-sub000/sdkerr"
)

// parseArg reads a runtime argument written as name:type=value. The type is a
// CL type name or its JSON form and the value is the parsed JSON form of the
// value; values that are not valid JSON are taken as strings.
func parseArg(text string) (deploy.NamedArg, error) {
	colon := strings.Index(text, ":")
	if colon <= 0 {
		return deploy.NamedArg{}, errors.Wrapf(sdkerr.ErrInvalidArgument, "argument %q: want name:type=value", text)
	}
	name, rest := text[:colon], text[colon+1:]
	eq := strings.Index(rest, "=")
	if eq <= 0 {
		return deploy.NamedArg{}, errors.Wrapf(sdkerr.ErrInvalidArgument, "argument %q: want name:type=value", text)
	}
	typeText, valueText := strings.TrimSpace(rest[:eq]), rest[eq+1:]

	rawType := json.RawMessage(typeText)
	if !strings.HasPrefix(typeText, "{") {
		quoted, _ := json.Marshal(typeText)
		rawType = quoted
	}
	rawValue := json.RawMessage(valueText)
	if !json.Valid(rawValue) {
		quoted, _ := json.Marshal(valueText)
		rawValue = quoted
	}

	data, err := json.Marshal(map[string]json.RawMessage{"cl_type": rawType, "parsed": rawValue})
	if err != nil {
		return deploy.NamedArg{}, errors.Wrapf(sdkerr.ErrInvalidArgument, "argument %q: %v", text, err)
	}
	var value cl.CLValue
	if err := json.Unmarshal(data, &value); err != nil {
		return deploy.NamedArg{}, errors.Wrapf(err, "argument %s", name)
	}
	return deploy.NamedArg{Name: name, Value: value}, nil
}

func parseArgs(texts []string) (deploy.Args, error) {
	args := make(deploy.Args, 0, len(texts))
	for _, text := range texts {
		arg, err := parseArg(text)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}
