package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/korzewarrior/smartkart/pkg/config"
	"github.com/korzewarrior/smartkart/pkg/logger"
)

// defaultRate is the words-per-minute pace the piper voice models are tuned
// for; other rates are expressed relative to it.
const defaultRate = 150

// engine is one way of turning text into audio on this device.
type engine interface {
	name() string
	speak(ctx context.Context, text string) error
}

// ExecSpeaker shells out to the device's TTS binaries, walking an ordered
// fallback chain: piper piped into each configured player, then espeak-ng
// directly. The queue only ever sees "speech attempted", never which backend
// handled it.
type ExecSpeaker struct {
	engines []engine
	logg    *logger.Logger
}

func NewExecSpeaker(cfg config.SpeechConfig, logg *logger.Logger) *ExecSpeaker {
	var engines []engine
	if cfg.PiperExecutable != "" && cfg.PiperModel != "" {
		for _, player := range cfg.Players {
			player = strings.TrimSpace(player)
			if player == "" {
				continue
			}
			engines = append(engines, &piperEngine{
				executable: cfg.PiperExecutable,
				model:      cfg.PiperModel,
				player:     player,
				rate:       cfg.Rate,
			})
		}
	}
	if cfg.EspeakExecutable != "" {
		engines = append(engines, &espeakEngine{
			executable: cfg.EspeakExecutable,
			rate:       cfg.Rate,
			volume:     cfg.Volume,
		})
	}
	return &ExecSpeaker{engines: engines, logg: logg}
}

// Speak tries each engine in order and returns nil on the first success.
func (s *ExecSpeaker) Speak(ctx context.Context, text string) error {
	if len(s.engines) == 0 {
		return fmt.Errorf("no speech engines configured")
	}

	var lastErr error
	for _, eng := range s.engines {
		err := eng.speak(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err
		if s.logg != nil {
			entry := s.logg.WithFields(ctx, map[string]any{"engine": eng.name(), "error": err.Error()})
			s.logg.Warn(entry, "speech engine failed, trying next")
		}
	}
	return fmt.Errorf("all speech engines failed: %w", lastErr)
}

// piperEngine pipes text into piper and piper's wav output into a player.
type piperEngine struct {
	executable string
	model      string
	player     string
	rate       int
}

func (e *piperEngine) name() string {
	return "piper/" + e.player
}

// args maps the words-per-minute rate onto piper's length scale, with 150
// words per minute as the model's native pace.
func (e *piperEngine) args() []string {
	args := []string{"--model", e.model, "--output_file", "-"}
	if e.rate > 0 && e.rate != defaultRate {
		scale := float64(defaultRate) / float64(e.rate)
		args = append(args, "--length_scale", strconv.FormatFloat(scale, 'f', 2, 64))
	}
	return args
}

func (e *piperEngine) speak(ctx context.Context, text string) error {
	synth := exec.CommandContext(ctx, e.executable, e.args()...)
	synth.Stdin = strings.NewReader(text)

	play := exec.CommandContext(ctx, e.player, "-")
	pipe, err := synth.StdoutPipe()
	if err != nil {
		return fmt.Errorf("piper stdout pipe: %w", err)
	}
	play.Stdin = pipe

	if err := play.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", e.player, err)
	}
	if err := synth.Run(); err != nil {
		play.Wait()
		return fmt.Errorf("running piper: %w", err)
	}
	if err := play.Wait(); err != nil {
		return fmt.Errorf("playing audio with %s: %w", e.player, err)
	}
	return nil
}

// espeakEngine speaks directly through espeak-ng's own audio output.
type espeakEngine struct {
	executable string
	rate       int
	volume     float64
}

func (e *espeakEngine) name() string {
	return "espeak"
}

// args builds the espeak invocation: -s is words per minute, -a amplitude on
// a 0 to 200 scale.
func (e *espeakEngine) args(text string) []string {
	var args []string
	if e.rate > 0 {
		args = append(args, "-s", strconv.Itoa(e.rate))
	}
	if e.volume > 0 {
		args = append(args, "-a", strconv.Itoa(int(e.volume*200)))
	}
	return append(args, text)
}

func (e *espeakEngine) speak(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, e.executable, e.args(text)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", e.executable, err)
	}
	return nil
}
