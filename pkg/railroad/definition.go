package railroad

import (
	"context"
	_ "embed"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/machinedef"
)

//go:embed crossing.yaml
var definitionYAML []byte

// Definition returns the crossing as a machinedef definition. Its call
// action names are the Command values.
func Definition() (*machinedef.Definition, error) {
	return machinedef.Parse(definitionYAML)
}

// Funcs binds every Command to signal, for building Definition.
func Funcs(signal Signal) machinedef.Funcs {
	funcs := make(machinedef.Funcs, 4)
	for _, cmd := range []Command{CmdLowerGate, CmdRaiseGate, CmdLightOn, CmdLightOff} {
		funcs[string(cmd)] = func(ctx context.Context) error { return signal(ctx, cmd) }
	}
	return funcs
}
