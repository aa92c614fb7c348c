// Package switcher implements the Lighting Switcher: it tracks genre/tempo
// state and the engine's current effect/palette rotation, and turns Lighting
// Flags into address-tagged Commands for the compositor.
package switcher

import (
	"fmt"

	"github.com/ledsync/lighting-engine/internal/command"
	"github.com/ledsync/lighting-engine/internal/interpret"
	"github.com/ledsync/lighting-engine/internal/utils"
)

const segmentNum = 10

var (
	tempoAnchor           = [5]float64{60, 80, 100, 120, 140}
	dimmerTimeRatioAnchor = [5]float64{3, 1, 0.7, 0.5, 0.3}
	paletteIDs            = [5]string{"A", "B", "C", "D", "E"}
	effectIDs             = [8]int{1, 2, 3, 4, 5, 6, 7, 8}
	jsonNameList          = [5]string{
		"test_effects.json", "classic.json", "dance.json", "jazz.json", "pop&rock.json",
	}
)

// Switcher is the Lighting Switcher: state over genre/tempo/rotation indices
// that emits exactly one command branch per call to LightSwitchFlag.
type Switcher struct {
	sceneID int

	genreID int
	tempo   float64

	currentEffectID     int
	currentPaletteIndex int
	currentEffectIndex  int
	segmentColorIDs     [segmentNum][4]int
}

func New(sceneID int) *Switcher {
	s := &Switcher{
		sceneID:             sceneID,
		currentPaletteIndex: -1,
		currentEffectIndex:  -1,
	}
	for i := range s.segmentColorIDs {
		for k := range s.segmentColorIDs[i] {
			s.segmentColorIDs[i][k] = -1
		}
	}
	return s
}

// UpdateState records the genre and tempo observed on the current frame,
// used to build load_effects payloads and the dimmer-ratio interpolation.
func (s *Switcher) UpdateState(genreID int, tempo float64) {
	s.genreID = genreID
	s.tempo = tempo
}

// LightSwitchFlag evaluates the precedence chain in order and returns the
// commands produced by the first matching branch, or nil if none match.
func (s *Switcher) LightSwitchFlag(flags interpret.LightingFlags) []command.Command {
	switch {
	case flags.LightingStartFlg:
		return []command.Command{
			command.New(s.addr("load_effects"), command.String(s.jsonName())),
		}
	case flags.LightingEndFlg:
		return []command.Command{
			command.New(s.addr("change_effect"), command.Int(0)),
		}
	case flags.LightingSceneChangeFlg:
		return []command.Command{
			command.New(s.addr("load_effects"), command.String(s.jsonName())),
		}
	case flags.PaletteChangeFlg:
		next := s.nextPaletteID()
		return []command.Command{
			command.New(s.addr("change_palette"), command.String(next)),
		}
	case flags.EffectChangeFlg:
		next := s.nextEffectID()
		s.currentEffectID = next
		return []command.Command{
			command.New(s.addr("change_effect"), command.Int(next)),
		}
	case flags.ColorShiftFlg:
		cmds := make([]command.Command, 0, segmentNum)
		for seg := 0; seg < segmentNum; seg++ {
			for k := range s.segmentColorIDs[seg] {
				s.segmentColorIDs[seg][k] = (s.segmentColorIDs[seg][k] + 1) % 5
			}
			colors := append([]int(nil), s.segmentColorIDs[seg][:]...)
			cmds = append(cmds, command.New(
				fmt.Sprintf("/scene/%d/effect/%d/segment/%d/color", s.sceneID, s.currentEffectID, seg),
				command.VecInt(colors),
			))
		}
		return cmds
	default:
		return nil
	}
}

// AdoptDimmerTimeToTempo emits a dimmer_time_ratio command per segment,
// interpolated from the current tempo. The segment index in the address is
// 1-based (s+1), preserving the original off-by-one addressing contract.
func (s *Switcher) AdoptDimmerTimeToTempo() []command.Command {
	ratio := s.calcDimmerTimeRatio()
	cmds := make([]command.Command, 0, segmentNum)
	for seg := 0; seg < segmentNum; seg++ {
		addr := fmt.Sprintf("/scene/%d/effect/%d/segment/%d/dimmer_time_ratio", s.sceneID, s.currentEffectID, seg+1)
		cmds = append(cmds, command.New(addr, command.Double(ratio)))
	}
	return cmds
}

func (s *Switcher) calcDimmerTimeRatio() float64 {
	t := s.tempo
	if t <= tempoAnchor[0] {
		return dimmerTimeRatioAnchor[0]
	}
	last := len(tempoAnchor) - 1
	if t >= tempoAnchor[last] {
		return dimmerTimeRatioAnchor[last]
	}
	for i := 0; i < last; i++ {
		lo, hi := tempoAnchor[i], tempoAnchor[i+1]
		if t >= lo && t <= hi {
			frac := (t - lo) / (hi - lo)
			return dimmerTimeRatioAnchor[i] + frac*(dimmerTimeRatioAnchor[i+1]-dimmerTimeRatioAnchor[i])
		}
	}
	return dimmerTimeRatioAnchor[last]
}

func (s *Switcher) nextPaletteID() string {
	s.currentPaletteIndex = (s.currentPaletteIndex + 1) % len(paletteIDs)
	return paletteIDs[s.currentPaletteIndex]
}

func (s *Switcher) nextEffectID() int {
	s.currentEffectIndex = (s.currentEffectIndex + 1) % len(effectIDs)
	return effectIDs[s.currentEffectIndex]
}

func (s *Switcher) jsonName() string {
	idx := utils.ClampIndex(s.genreID, len(jsonNameList))
	return jsonNameList[idx]
}

func (s *Switcher) addr(suffix string) string {
	return fmt.Sprintf("/scene/%d/%s", s.sceneID, suffix)
}

// CurrentEffectID exposes the switcher's view of the active effect, mainly
// for tests and logging.
func (s *Switcher) CurrentEffectID() int { return s.currentEffectID }
