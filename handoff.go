package spendpermission

import (
	"fmt"
	"io"
	"strings"
)

const handoffRule = "=============================="

// WriteHandoff prints a signed permission in the block the backend approve
// script expects to be pasted: the permission object followed by the signature.
func WriteHandoff(w io.Writer, signed SignedPermission) error {
	permissionJSON, err := signed.Permission.MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to encode permission: %w", err)
	}

	var b strings.Builder
	b.WriteString(handoffRule + "\n")
	b.WriteString("SPEND PERMISSION CREATED!\n")
	b.WriteString(handoffRule + "\n")
	b.WriteString("\nCOPY THIS TO BACKEND SCRIPTS:\n\n")
	b.WriteString("// Permission object:\n")
	b.Write(permissionJSON)
	b.WriteString("\n\n// Signature:\n")
	b.WriteString(signed.Signature)
	b.WriteString("\n" + handoffRule + "\n")

	_, err = io.WriteString(w, b.String())
	return err
}

// HandoffHook returns an after-create hook that prints the hand-off block to w.
func HandoffHook(w io.Writer) AfterCreateHook {
	return func(ctx CreateResultContext) error {
		return WriteHandoff(w, ctx.Result)
	}
}
