package sortviz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reiatsu/bot/common"
	"reiatsu/game/sorting"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	minSize     = 5
	maxSize     = 20
	defaultSize = 12

	// maxFrames bounds the number of message edits per run
	maxFrames      = 40
	frameInterval  = 1200 * time.Millisecond
	animationLimit = 2 * time.Minute
)

// Feature animates sorting algorithms by editing a message
type Feature struct {
	deps *common.Deps
}

func New(deps *common.Deps) *Feature {
	return &Feature{deps: deps}
}

// HandleCommand handles /sort algorithm [size]
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := "bubble"
	size := defaultSize
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "algorithm":
			name = opt.StringValue()
		case "size":
			size = int(opt.IntValue())
		}
	}

	algorithm, ok := sorting.Algorithms[name]
	if !ok {
		common.RespondWithError(s, i, fmt.Sprintf("Unknown algorithm. Pick one of: %s.", strings.Join(sorting.Names(), ", ")))
		return
	}
	size = min(max(size, minSize), maxSize)

	values := f.shuffled(size)
	frames := sampleFrames(collect(algorithm, values), maxFrames)

	if err := common.RespondWithEmbed(s, i, buildFrameEmbed(name, sorting.Step{Values: values}, 0, len(frames)), nil, false); err != nil {
		log.Errorf("Error starting sort animation: %v", err)
		return
	}

	go f.animate(s, i.Interaction, name, frames)
}

func (f *Feature) animate(s *discordgo.Session, interaction *discordgo.Interaction, name string, frames []sorting.Step) {
	ctx, cancel := context.WithTimeout(context.Background(), animationLimit)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(frameInterval), 1)
	for idx, frame := range frames {
		if err := limiter.Wait(ctx); err != nil {
			log.WithError(err).Debug("Sort animation stopped")
			return
		}

		embed := buildFrameEmbed(name, frame, idx+1, len(frames))
		if idx == len(frames)-1 {
			embed.Color = common.ColorSuccess
			embed.Title += " ✅"
		}
		if _, err := s.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
			Embeds: &[]*discordgo.MessageEmbed{embed},
		}); err != nil {
			log.WithError(err).Warn("Failed to edit sort animation")
			return
		}
	}
}

// shuffled returns 1..n in random order
func (f *Feature) shuffled(n int) []int {
	values := make([]int, n)
	for idx := range values {
		values[idx] = idx + 1
	}
	for idx := n - 1; idx > 0; idx-- {
		j := f.deps.Random.IntN(idx + 1)
		values[idx], values[j] = values[j], values[idx]
	}
	return values
}

func collect(algorithm sorting.Algorithm, values []int) []sorting.Step {
	var steps []sorting.Step
	for step := range algorithm(values) {
		steps = append(steps, step)
	}
	return steps
}

// sampleFrames keeps at most limit evenly spaced steps, always including the last
func sampleFrames(steps []sorting.Step, limit int) []sorting.Step {
	if len(steps) <= limit {
		return steps
	}
	frames := make([]sorting.Step, 0, limit)
	for k := range limit {
		frames = append(frames, steps[(k+1)*len(steps)/limit-1])
	}
	return frames
}

func buildFrameEmbed(name string, step sorting.Step, frame, total int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📊 %s sort", strings.ToUpper(name[:1])+name[1:]),
		Description: renderBars(step),
		Color:       common.ColorInfo,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Frame %d/%d", frame, total)},
	}
}

// renderBars draws one horizontal bar per value, highlighted values in red
func renderBars(step sorting.Step) string {
	highlighted := make(map[int]bool, len(step.Highlight))
	for _, idx := range step.Highlight {
		highlighted[idx] = true
	}

	var sb strings.Builder
	for idx, value := range step.Values {
		block := "🟦"
		if highlighted[idx] {
			block = "🟥"
		}
		fmt.Fprintf(&sb, "`%2d` %s\n", value, strings.Repeat(block, value))
	}
	return sb.String()
}
