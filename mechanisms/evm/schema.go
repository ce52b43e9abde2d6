package evm

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// typedDataSchema describes the eth_signTypedData_v4 document for a SpendPermission.
const typedDataSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["domain", "types", "primaryType", "message"],
  "properties": {
    "primaryType": {"const": "SpendPermission"},
    "domain": {
      "type": "object",
      "required": ["name", "version", "chainId", "verifyingContract"],
      "properties": {
        "name": {"const": "Spend Permission Manager"},
        "version": {"const": "1"},
        "chainId": {"type": "integer", "minimum": 1},
        "verifyingContract": {"$ref": "#/definitions/address"}
      }
    },
    "types": {
      "type": "object",
      "required": ["EIP712Domain", "SpendPermission"],
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["name", "type"],
          "properties": {
            "name": {"type": "string", "minLength": 1},
            "type": {"type": "string", "minLength": 1}
          }
        }
      }
    },
    "message": {
      "type": "object",
      "required": ["account", "spender", "token", "allowance", "period", "start", "end", "salt", "extraData"],
      "additionalProperties": false,
      "properties": {
        "account": {"$ref": "#/definitions/address"},
        "spender": {"$ref": "#/definitions/address"},
        "token": {"$ref": "#/definitions/address"},
        "allowance": {"type": "string", "pattern": "^[1-9][0-9]*$"},
        "period": {"$ref": "#/definitions/uint48"},
        "start": {"$ref": "#/definitions/uint48"},
        "end": {"$ref": "#/definitions/uint48"},
        "salt": {"type": "string", "pattern": "^[0-9]+$"},
        "extraData": {"type": "string", "pattern": "^0x([0-9a-fA-F]{2})*$"}
      }
    }
  },
  "definitions": {
    "address": {"type": "string", "pattern": "^0x[0-9a-fA-F]{40}$"},
    "uint48": {"type": "integer", "minimum": 0, "maximum": 281474976710655}
  }
}`

var typedDataSchemaLoader = gojsonschema.NewStringLoader(typedDataSchema)

// ValidationResult holds the outcome of validating a typed-data document
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// ValidateTypedDataJSON checks an encoded typed-data document before it is
// sent to the wallet.
func ValidateTypedDataJSON(document []byte) ValidationResult {
	result, err := gojsonschema.Validate(typedDataSchemaLoader, gojsonschema.NewBytesLoader(document))
	if err != nil {
		return ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("Schema validation failed: %v", err)},
		}
	}

	if result.Valid() {
		return ValidationResult{Valid: true}
	}

	var errors []string
	for _, desc := range result.Errors() {
		errors = append(errors, fmt.Sprintf("%s: %s", desc.Context().String(), desc.Description()))
	}

	return ValidationResult{
		Valid:  false,
		Errors: errors,
	}
}
