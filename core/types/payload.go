package types

// EntryFunctionPayloadType is the discriminator used by wallets and signers
// for entry function calls.
const EntryFunctionPayloadType = "entry_function_payload"

// EntryFunctionPayload describes an entry function invocation ready to be
// handed to an external signer. It is never submitted by this module.
type EntryFunctionPayload struct {
	Type          string   `json:"type"`
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []string `json:"arguments"`
}

// NewEntryFunctionPayload builds a payload, copying the supplied slices so the
// result does not alias caller state. Nil slices become empty ones to keep the
// JSON encoding stable.
func NewEntryFunctionPayload(function string, typeArgs []string, args ...string) EntryFunctionPayload {
	payload := EntryFunctionPayload{
		Type:          EntryFunctionPayloadType,
		Function:      function,
		TypeArguments: make([]string, len(typeArgs)),
		Arguments:     make([]string, len(args)),
	}
	copy(payload.TypeArguments, typeArgs)
	copy(payload.Arguments, args)
	return payload
}
