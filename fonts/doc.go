// Package fonts resolves symbolic font names to rasterizable faces and
// measures text extents. Resolution never fails: unknown or broken fonts
// degrade through system lookup to an embedded default face.
package fonts
