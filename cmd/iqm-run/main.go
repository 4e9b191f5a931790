// Command iqm-run submits circuit batches described in a YAML job spec
// to an IQM device and prints the measured registers.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/qrithm/iqm-client/devices"
	"github.com/qrithm/iqm-client/internal/config"
	"github.com/qrithm/iqm-client/iqm"
)

type endpointDevice interface {
	devices.Device
	SetEndpointURL(url string)
}

func main() {
	var (
		specPath     = flag.String("config", "job.yaml", "path to the YAML job spec")
		token        = flag.String("token", "", "IQM access token (defaults to the "+iqm.TokenEnvVar+" environment variable)")
		architecture = flag.Bool("architecture", false, "query the device architecture instead of running the job")
		abortID      = flag.String("abort", "", "abort the job with the given id instead of running the job")
		verbose      = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	// Pick up IQM_TOKEN from a local .env file if one exists.
	_ = godotenv.Load()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	runLog := log.WithField("run_id", uuid.NewString())

	if err := run(runLog, *specPath, *token, *architecture, *abortID); err != nil {
		runLog.WithError(err).Fatal("run failed")
	}
}

func run(log logrus.FieldLogger, specPath, token string, architecture bool, abortID string) error {
	spec, err := config.Load(specPath)
	if err != nil {
		return err
	}

	device, err := selectDevice(spec)
	if err != nil {
		return err
	}

	opts := []iqm.Option{iqm.WithLogger(log)}
	if spec.Shots > 0 {
		opts = append(opts, iqm.WithShotOverride(spec.Shots))
	}
	if spec.Heralding != "" {
		opts = append(opts, iqm.WithHeraldingMode(iqm.HeraldingMode(spec.Heralding)))
	}
	if budget := spec.WaitBudget(); budget > 0 {
		opts = append(opts, iqm.WithTimeout(budget))
	}
	backend, err := iqm.NewBackend(device, token, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if architecture {
		return printArchitecture(ctx, backend)
	}
	if abortID != "" {
		return backend.AbortJob(ctx, abortID)
	}

	batch, err := spec.Build()
	if err != nil {
		return err
	}
	registers, err := backend.RunCircuitBatch(ctx, batch)
	if err != nil {
		return err
	}
	printRegisters(registers)
	return nil
}

func selectDevice(spec *config.JobSpec) (devices.Device, error) {
	var device devices.Device
	switch strings.ToLower(spec.Device) {
	case "deneb":
		device = devices.NewDenebDevice()
	case "demo":
		device = devices.NewDemoDevice()
	case "resonator-free", "resonatorfree":
		return nil, fmt.Errorf("device %s is a compilation target and cannot run jobs", spec.Device)
	default:
		return nil, fmt.Errorf("unknown device %q", spec.Device)
	}
	if spec.Endpoint != "" {
		d, ok := device.(endpointDevice)
		if !ok {
			return nil, fmt.Errorf("device %s does not accept an endpoint override", device.Name())
		}
		d.SetEndpointURL(spec.Endpoint)
	}
	return device, nil
}

func printArchitecture(ctx context.Context, backend *iqm.Backend) error {
	raw, err := backend.QuantumArchitecture(ctx)
	if err != nil {
		return err
	}
	name := gjson.Get(raw, "quantum_architecture.name")
	qubits := gjson.Get(raw, "quantum_architecture.qubits")
	if name.Exists() {
		fmt.Printf("architecture: %s\n", name.String())
	}
	if qubits.Exists() {
		fmt.Printf("qubits: %s\n", qubits.Raw)
	}
	fmt.Println(raw)
	return nil
}

func printRegisters(registers iqm.Registers) {
	for name, reg := range registers {
		fmt.Printf("%s:\n", name)
		for _, shot := range reg {
			row := make([]byte, len(shot))
			for i, bit := range shot {
				row[i] = '0'
				if bit {
					row[i] = '1'
				}
			}
			fmt.Printf("  %s\n", row)
		}
	}
}
