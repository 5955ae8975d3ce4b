/*
Package regions provides the static catalog of semantic brain regions.

A catalog is built once at startup, either from the reference deployment
(Defaults) or from a YAML/JSON region file (LoadFile), and is read-only
afterwards. Declaration order is significant: the classifier scans keywords in
that order.
*/
package regions
