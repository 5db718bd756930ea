package entity

// Origen de las estadísticas por rol.
const (
	StatsSourceServer = "server" // endpoint dedicado del backend
	StatsSourceSample = "sample" // agregado en cliente sobre una muestra de usuarios
)

// RoleStatistics conteo de usuarios por rol.
// Approximate es true cuando el conteo sale de una muestra menor que el total real
// o cuando la muestra trae roles fuera del catálogo (Unknown), que no entran en Counts.
type RoleStatistics struct {
	Counts      map[RoleName]int
	Total       int
	Sampled     int // usuarios leídos en la muestra; 0 si Source es server
	Unknown     int
	Approximate bool
	Source      string
}

// NewRoleStatistics inicializa los cinco roles en cero.
func NewRoleStatistics(source string) RoleStatistics {
	counts := make(map[RoleName]int, len(AllRoleNames()))
	for _, r := range AllRoleNames() {
		counts[r] = 0
	}
	return RoleStatistics{Counts: counts, Source: source}
}

// Sum suma los conteos de todos los roles.
func (s RoleStatistics) Sum() int {
	total := 0
	for _, n := range s.Counts {
		total += n
	}
	return total
}

// AggregateRoleCounts cuenta los usuarios de la muestra por rol.
// totalUsers es el total real informado por la paginación del servidor.
func AggregateRoleCounts(sample []User, totalUsers int) RoleStatistics {
	stats := NewRoleStatistics(StatsSourceSample)
	for _, u := range sample {
		if u.Role.Valid() {
			stats.Counts[u.Role]++
		} else {
			stats.Unknown++
		}
	}
	stats.Total = totalUsers
	stats.Sampled = len(sample)
	stats.Approximate = totalUsers > len(sample) || stats.Unknown > 0
	return stats
}
