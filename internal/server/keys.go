package server

import (
	"unicode/utf8"

	"soul-battle/internal/game"
)

// KeyKind classifies a decoded terminal key.
type KeyKind int

const (
	KeyMove   KeyKind = iota // hold a direction
	KeySelect                // pick a catalog enemy by index
	KeyRandom                // pick a random enemy
	KeyBack                  // abandon the battle, back to the lobby
	KeyQuit                  // close the session
)

// Key is one decoded key press.
type Key struct {
	Kind  KeyKind
	Dir   game.Direction // KeyMove
	Enemy int            // KeySelect, zero based
}

// parseInput converts raw bytes into key presses.
// Handles WASD, arrow key escape sequences, digits, R, Esc, Q, and Ctrl-C.
func parseInput(data []byte) []Key {
	var keys []Key
	i := 0
	for i < len(data) {
		if data[i] == 0x1b {
			// Arrow keys
			if i+2 < len(data) && data[i+1] == '[' {
				switch data[i+2] {
				case 'A':
					keys = append(keys, Key{Kind: KeyMove, Dir: game.DirUp})
				case 'B':
					keys = append(keys, Key{Kind: KeyMove, Dir: game.DirDown})
				case 'C':
					keys = append(keys, Key{Kind: KeyMove, Dir: game.DirRight})
				case 'D':
					keys = append(keys, Key{Kind: KeyMove, Dir: game.DirLeft})
				}
				i += 3
				continue
			}
			keys = append(keys, Key{Kind: KeyBack})
			i++
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'w', 'W':
			keys = append(keys, Key{Kind: KeyMove, Dir: game.DirUp})
		case 's', 'S':
			keys = append(keys, Key{Kind: KeyMove, Dir: game.DirDown})
		case 'a', 'A':
			keys = append(keys, Key{Kind: KeyMove, Dir: game.DirLeft})
		case 'd', 'D':
			keys = append(keys, Key{Kind: KeyMove, Dir: game.DirRight})
		case '1', '2', '3', '4':
			keys = append(keys, Key{Kind: KeySelect, Enemy: int(r - '1')})
		case 'r', 'R':
			keys = append(keys, Key{Kind: KeyRandom})
		case 'q', 'Q':
			keys = append(keys, Key{Kind: KeyQuit})
		case 3: // Ctrl-C
			keys = append(keys, Key{Kind: KeyQuit})
		}
		i += size
	}
	return keys
}
