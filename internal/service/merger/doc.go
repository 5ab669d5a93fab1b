// Package merger moves the resources of an extracted server-data bundle into a
// namespace folder under resources/ and removes the extraction leftovers.
package merger
