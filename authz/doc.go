// Package authz provides the authorization building blocks the client is
// written against.
//
// Checker is the question every caller asks: may this subject perform this
// action on this entity. The fga client answers it remotely; MapChecker
// answers it from a static table for development and tests.
//
// RelationMapper is the explicit action → relation table. The default maps
// "delete" (any casing) to catalog_entity_delete and everything else to
// catalog_entity_read; Strict turns unknown actions into INVALID_INPUT.
//
//	m := authz.DefaultRelationMapper(authz.Strict())
//	rel, err := m.Relation("Delete") // "catalog_entity_delete", nil
//	_, err = m.Relation("update")    // INVALID_INPUT, errors.Is(err, authz.ErrUnknownAction)
package authz
