package game

import (
	"errors"
	"fmt"
)

// ErrInvalidEnemy is returned when an explicit catalog index is out of range.
var ErrInvalidEnemy = errors.New("invalid enemy index")

// EnemyDef is an immutable enemy template.
type EnemyDef struct {
	Name    string
	HP      int
	Attack  int
	Defense int
	EXP     int // awarded on victory
	Gold    int // awarded on victory
	Color   string
	Pattern PatternTag
}

// Enemy is the live opponent of a battle session.
type Enemy struct {
	Def EnemyDef
	HP  int
}

var catalog = [...]EnemyDef{
	{Name: "FROGGIT", HP: 30, Attack: 5, Defense: 4, EXP: 10, Gold: 5, Color: "#90ee90", Pattern: PatternCross},
	{Name: "WHIMSUN", HP: 20, Attack: 3, Defense: 2, EXP: 8, Gold: 4, Color: "#87ceeb", Pattern: PatternSpiral},
	{Name: "MOLDSMAL", HP: 40, Attack: 6, Defense: 3, EXP: 12, Gold: 6, Color: "#dda0dd", Pattern: PatternRain},
	{Name: "LOOX", HP: 35, Attack: 7, Defense: 5, EXP: 15, Gold: 8, Color: "#ffd700", Pattern: PatternWave},
}

// CatalogSize is the number of enemy templates.
const CatalogSize = len(catalog)

// Catalog returns a copy of the enemy templates in index order.
func Catalog() []EnemyDef {
	defs := make([]EnemyDef, len(catalog))
	copy(defs, catalog[:])
	return defs
}

// EnemyAt returns the template at index.
func EnemyAt(index int) (EnemyDef, error) {
	if index < 0 || index >= len(catalog) {
		return EnemyDef{}, fmt.Errorf("%w: %d (want 0-%d)", ErrInvalidEnemy, index, len(catalog)-1)
	}
	return catalog[index], nil
}

func newEnemy(def EnemyDef) *Enemy {
	return &Enemy{Def: def, HP: def.HP}
}
