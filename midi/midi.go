package midi

import (
	"fmt"
)

const (
	PitchD4 = 50
	PitchA4 = 57
	PitchC5 = 60
	PitchB5 = 71
	PitchF6 = 77
)
const (
	InstPiano = 0
	InstEPiano = 5
	InstGuitar = 25
	InstEGuitar = 27
	InstViolin = 41
	InstVoice = 54
	InstWoodblock = 115
)

var degreeNames []string = []string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

func PitchName(pitch uint8) string {
	degree := pitch % 12
	octave := pitch / 12
	return fmt.Sprintf("%s%d", degreeNames[degree], octave)
}

var baseDegree map[byte]int = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

/* ParsePitch inverts PitchName. Accepts an upper-case note letter, an
 * optional single accidental (# ♯ b ♭) and a decimal octave. */
func ParsePitch(name string) (uint8, error) {
	runes := []rune(name)
	if len(runes) < 2 {
		return 0, fmt.Errorf("midi: pitch too short: %q", name)
	}
	degree, ok := baseDegree[byte(runes[0])]
	if !ok {
		return 0, fmt.Errorf("midi: bad note letter in %q", name)
	}
	i := 1
	switch runes[i] {
	case '#', '♯':
		degree++
		i++
	case 'b', '♭':
		degree--
		i++
	}
	if i >= len(runes) {
		return 0, fmt.Errorf("midi: missing octave in %q", name)
	}
	octave := 0
	for ; i < len(runes); i++ {
		if runes[i] < '0' || runes[i] > '9' {
			return 0, fmt.Errorf("midi: bad octave in %q", name)
		}
		octave = octave * 10 + int(runes[i] - '0')
	}
	pitch := octave * 12 + degree
	if pitch < 0 || pitch > 127 {
		return 0, fmt.Errorf("midi: pitch out of range: %q", name)
	}
	return uint8(pitch), nil
}

var instNames map[int]string
var instIds map[string]int

func inst(id int, name string) {
	instNames[id] = name
	instIds[name] = id
}

func init() {
	instNames = make(map[int]string)
	instIds = make(map[string]int)
	inst(InstPiano, "Piano")
	inst(InstEPiano, "E. Piano")
	inst(InstGuitar, "Guitar")
	inst(InstEGuitar, "E. Guitar")
	inst(InstViolin, "Violin")
	inst(InstVoice, "Voice")
	inst(InstWoodblock, "Woodblock")
}

func InstName(id int) string {
	name, ok := instNames[id]
	if ok {
		return name
	}
	return fmt.Sprintf("GM%03d", id)
}

func InstId(name string) int {
	id, ok := instIds[name]
	if ok {
		return id
	}
	return -1
}
