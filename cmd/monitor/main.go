package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/internal/utils"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/audio"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/audioapi"
	"github.com/Honorable-Knights-of-the-Roundtable/minstrel/pkg/audioapi/portaudio"
)

const meterWidth = 24

// monitorModel is the input stream's model: a level monitor fed by the
// capture function. The monitor arrives via a stream update once the
// negotiated sample rate is known.
type monitorModel struct {
	monitor *audio.Monitor
}

func loadConfig(configFilePath string) {
	utils.SetViperDefaults()

	viper.SetConfigFile(configFilePath)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			slog.Info("no config file found, using defaults", "configFilePath", configFilePath)
		} else {
			slog.Error("error during config read", "err", err)
			panic(err)
		}
	}
}

// findInputDevice resolves the configured device name against the
// API's input devices, falling back to the default input device when
// the name is empty or matches nothing.
func findInputDevice(api audioapi.DeviceAPI, name string) (audioapi.Device, bool) {
	if name == "" {
		return audioapi.Device{}, false
	}

	devices, err := api.InputDevices()
	if err != nil {
		slog.Warn("failed to enumerate input devices", "err", err)
		return audioapi.Device{}, false
	}
	for _, dev := range devices {
		if strings.Contains(strings.ToLower(dev.Name), strings.ToLower(name)) {
			return dev, true
		}
	}

	slog.Warn("no input device matches configured name, using default", "device", name)
	return audioapi.Device{}, false
}

func meter(level float32) string {
	n := int(level * meterWidth)
	n = max(0, min(n, meterWidth))
	return strings.Repeat("#", n) + strings.Repeat("-", meterWidth-n)
}

func main() {
	configFilePath := flag.String("config", "monitor.yaml", "Path to the monitor config file.")
	flag.Parse()

	loadConfig(*configFilePath)

	logFilePointer, err := utils.ConfigureDefaultLogger(
		viper.GetString("loglevel"),
		viper.GetString("logfile"),
		slog.HandlerOptions{},
	)
	if err != nil {
		panic(err)
	}
	if logFilePointer != nil {
		defer logFilePointer.Close()
	}

	api, err := portaudio.New()
	if err != nil {
		slog.Error("failed to initialize audio api", "err", err)
		os.Exit(1)
	}
	defer api.Close()

	builder := audio.NewInputStream(api, monitorModel{}).
		Capture(func(m *monitorModel, buf *audio.Buffer) {
			if m.monitor != nil {
				m.monitor.Process(buf)
			}
		}).
		SampleRate(viper.GetInt("samplerate")).
		Channels(viper.GetInt("channels")).
		FramesPerBuffer(viper.GetInt("framesperbuffer"))

	if dev, ok := findInputDevice(api, viper.GetString("device")); ok {
		builder.Device(dev)
	}

	stream, err := builder.Build()
	if err != nil {
		slog.Error("failed to build input stream", "err", err)
		os.Exit(1)
	}
	defer stream.Close()

	// The monitor's crossover filters depend on the negotiated rate,
	// so it is created after the build and handed to the model as an
	// update.
	monitor := audio.NewMonitor(stream.SampleRate())
	stream.SendUpdate(func(m *monitorModel) { m.monitor = monitor })

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	refresh := time.Duration(viper.GetInt("refreshmilliseconds")) * time.Millisecond
	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	fmt.Printf("monitoring input at %v, interrupt to pause\n", stream.Format())
	for {
		select {
		case <-ticker.C:
			low, mid, high := monitor.Bands()
			fmt.Printf("\rrms [%s] peak [%s] low [%s] mid [%s] high [%s]",
				meter(monitor.RMS()), meter(monitor.Peak()), meter(low), meter(mid), meter(high))
		case <-interrupt:
			if !stream.IsPaused() {
				stream.Pause()
				fmt.Printf("\npaused, interrupt again to quit\n")
				continue
			}
			fmt.Println()
			return
		}
	}
}
