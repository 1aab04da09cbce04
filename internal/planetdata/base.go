package planetdata

// BasePlanets returns the built-in orbital data for the eight planets.
// Distances are in AU; speeds are radians per tick at 1x; initial angles
// place each planet where it was on 2 November 2024.
func BasePlanets() []Planet {
	return []Planet{
		{Name: "MERCURY", Size: 0.5, Distance: 0.39, Texture: "mercuryTexture", Speed: 0.08264, RotationSpeed: 0.02, InitialAngleDeg: 51.57},
		{Name: "VENUS", Size: 0.7, Distance: 0.72, Texture: "venusTexture", Speed: 0.03232, RotationSpeed: 0.01, InitialAngleDeg: 142.2},
		{Name: "EARTH", Size: 0.75, Distance: 1, Texture: "earthTexture", Speed: 0.01992, RotationSpeed: 0.03, InitialAngleDeg: 303.84},
		{Name: "MARS", Size: 0.6, Distance: 1.52, Texture: "marsTexture", Speed: 0.01059, RotationSpeed: 0.04, InitialAngleDeg: 78.12},
		{Name: "JUPITER", Size: 1.2, Distance: 5.2, Texture: "jupiterTexture", Speed: 0.001673, RotationSpeed: 0.05, InitialAngleDeg: 33.84},
		{Name: "SATURN", Size: 1, Distance: 9.54, Texture: "saturnTexture", Speed: 0.0009294, RotationSpeed: 0.03, InitialAngleDeg: 303.73},
		{Name: "URANUS", Size: 0.9, Distance: 19.2, Texture: "uranusTexture", Speed: 0.000237, RotationSpeed: 0.02, InitialAngleDeg: 106.45},
		{Name: "NEPTUNE", Size: 0.85, Distance: 30.06, Texture: "neptuneTexture", Speed: 0.0001208, RotationSpeed: 0.02, InitialAngleDeg: 54.3},
	}
}
