package model

// Role is a hero's team role.
type Role string

const (
	RoleUnknown Role = ""
	RoleTank    Role = "Tank"
	RoleDamage  Role = "Damage"
	RoleSupport Role = "Support"
)

func (r Role) String() string {
	if r == RoleUnknown {
		return "?"
	}
	return string(r)
}

// Priority orders roles the way team sheets list them: tanks first, unknown last.
func (r Role) Priority() int {
	switch r {
	case RoleTank:
		return 0
	case RoleDamage:
		return 1
	case RoleSupport:
		return 2
	default:
		return 3
	}
}

// HeroLucio is the support whose ultimate end is tracked by the Ajax counter.
const HeroLucio = "Lúcio"

var heroRoles = map[string]Role{
	// Tank
	"D.Va":          RoleTank,
	"Doomfist":      RoleTank,
	"Hazard":        RoleTank,
	"Junker Queen":  RoleTank,
	"Mauga":         RoleTank,
	"Orisa":         RoleTank,
	"Ramattra":      RoleTank,
	"Reinhardt":     RoleTank,
	"Roadhog":       RoleTank,
	"Sigma":         RoleTank,
	"Winston":       RoleTank,
	"Wrecking Ball": RoleTank,
	"Zarya":         RoleTank,
	// Damage
	"Ashe":        RoleDamage,
	"Bastion":     RoleDamage,
	"Cassidy":     RoleDamage,
	"Echo":        RoleDamage,
	"Freja":       RoleDamage,
	"Genji":       RoleDamage,
	"Hanzo":       RoleDamage,
	"Junkrat":     RoleDamage,
	"Mei":         RoleDamage,
	"Pharah":      RoleDamage,
	"Reaper":      RoleDamage,
	"Sojourn":     RoleDamage,
	"Soldier: 76": RoleDamage,
	"Sombra":      RoleDamage,
	"Symmetra":    RoleDamage,
	"Torbjörn":    RoleDamage,
	"Tracer":      RoleDamage,
	"Venture":     RoleDamage,
	"Widowmaker":  RoleDamage,
	// Support
	"Ana":        RoleSupport,
	"Baptiste":   RoleSupport,
	"Brigitte":   RoleSupport,
	"Illari":     RoleSupport,
	"Juno":       RoleSupport,
	"Kiriko":     RoleSupport,
	"Lifeweaver": RoleSupport,
	HeroLucio:    RoleSupport,
	"Mercy":      RoleSupport,
	"Moira":      RoleSupport,
	"Zenyatta":   RoleSupport,
}

// HeroRole returns the role of a hero, or RoleUnknown for names not in the roster.
func HeroRole(hero string) Role {
	return heroRoles[hero]
}
