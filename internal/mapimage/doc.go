// Package mapimage guesses the asset URL of a map's illustration from its
// display name.
//
// Asset filenames on the status site are derived from map names in a few
// inconsistent ways ("Worlds_Edge", "E_District", "EDistrict"), so several
// slug candidates are generated in order of preference. The resolver either
// trusts the first candidate or confirms candidates one by one over HTTP.
package mapimage
