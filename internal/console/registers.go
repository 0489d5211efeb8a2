package console

import (
	"context"
	"strconv"
	"strings"

	"github.com/nexus-edge/hvac-console/internal/catalog"
	"github.com/nexus-edge/hvac-console/internal/domain"
)

func registerModbus(r *Registry) {
	r.MustRegister("modbus input_registers show", showRegisters(domain.BankInput))
	r.MustRegister("modbus holding_registers show", showRegisters(domain.BankHolding))
	r.MustRegister("modbus holding_registers set", setHoldingRegister)
	r.MustRegister("modbus show_info", showModbusInfo)
}

func showRegisters(bank domain.Bank) Handler {
	return func(ctx context.Context, env *Env, arg string) {
		tokens := strings.Fields(arg)
		if len(tokens) == 0 {
			env.Printf("Example usage : modbus %s_registers show 1 2 5-10 15 16\n", bank)
			return
		}

		ids, err := ParseRegisterSet(tokens, bank.Size())
		if err != nil {
			env.fail(err)
			return
		}

		env.Printf("Showing %2d registers:\n", len(ids))
		lo, hi := ids[0], ids[len(ids)-1]
		if !env.read(ctx, bank, lo, hi-lo+1) {
			return
		}
		for _, id := range ids {
			v, _ := env.Store.Get(bank, id)
			env.Printf("register[%d] = %d\t(%s)\n", id, v, catalog.Describe(bank, id).Description)
		}
	}
}

func setHoldingRegister(ctx context.Context, env *Env, arg string) {
	tokens := strings.Fields(arg)
	if !env.arity(tokens, 2) {
		return
	}

	id, err := strconv.ParseUint(tokens[0], 10, 32)
	if err != nil {
		env.fail(domain.ErrSyntax)
		return
	}
	if id >= domain.HoldingCount {
		env.failf("Register number is too big. Max allowed is %d", domain.HoldingCount-1)
		return
	}
	value, ok := env.parseInt(tokens[1])
	if !ok {
		return
	}

	d := catalog.Describe(domain.BankHolding, uint16(id))
	if env.writeRegister(ctx, uint16(id), value) {
		env.Printf("Setting register %d [%s] to %d\n", id, d.Description, d.Value(catalog.Encode(value)))
	}
}

func showModbusInfo(_ context.Context, env *Env, _ string) {
	dev := env.Info.Device
	if dev.Protocol == domain.ProtocolModbusRTU {
		env.field("Transport", "Modbus RTU")
		env.field("Serial device", "%s", dev.SerialPort)
		env.field("Serial settings", "%s", dev.Framing())
	} else {
		env.field("Transport", "Modbus TCP")
		env.field("Address", "%s", dev.Address())
	}
	env.field("Slave_Id", "%d", dev.SlaveID)
	env.field("Response timeout", "%s", dev.Timeout)

	if env.Stats == nil {
		return
	}
	s := env.Stats()
	env.field("Reads / writes", "%d / %d", s.ReadCount, s.WriteCount)
	env.field("Average read / write time", "%.1f / %.1f ms", s.AvgReadTimeMs, s.AvgWriteTimeMs)
	env.field("Connect / I/O errors", "%d / %d", s.ConnectErrors, s.IOErrors)
	if !s.LastSuccess.IsZero() {
		env.field("Last success", "%s", s.LastSuccess.Format("2006-01-02 15:04:05"))
	}
	if s.LastError != nil {
		env.field("Last error", "%s", Diagnostic(s.LastError))
	}
}
