package console

import (
	"context"

	"github.com/nexus-edge/hvac-console/internal/catalog"
	"github.com/nexus-edge/hvac-console/internal/domain"
)

// setValue writes one holding register from a value given in its physical
// unit: whole numbers for raw registers, decimals for scaled ones.
func setValue(id uint16) Handler {
	return func(ctx context.Context, env *Env, arg string) {
		tok, ok := env.single(arg)
		if !ok {
			return
		}

		d := catalog.Describe(domain.BankHolding, id)
		var value int32
		if d.Scale == 0 {
			if value, ok = env.parseInt(tok); !ok {
				return
			}
		} else {
			f, ok := env.parseFloat(tok)
			if !ok {
				return
			}
			value = catalog.Unscale(f, d.Scale)
		}

		if env.writeRegister(ctx, id, value) {
			env.Printf("Setting %s to %s\n", d.Name, formatRaw(d, value))
		}
	}
}

// setConst writes a fixed value and takes no argument.
func setConst(id uint16, value int32, label string) Handler {
	return func(ctx context.Context, env *Env, _ string) {
		if env.writeRegister(ctx, id, value) {
			env.Printf("%s\n", label)
		}
	}
}

// systemCommand writes cmd to the system command register.
func systemCommand(cmd domain.SystemCommand, done string) Handler {
	return setConst(domain.HoldingSaveButton, int32(cmd), done)
}
