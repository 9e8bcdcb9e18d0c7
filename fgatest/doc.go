// Package fgatest provides a fake authorization service for tests.
//
// Server serves POST /stores/{store_id}/check and /write on an httptest
// listener with a gin router. Writes and deletes change an in-memory tuple
// set, checks are answered from it, and every request is recorded for
// assertions on the exact wire body. Reply scripts arbitrary status codes
// and bodies ahead of the tuple evaluation.
//
//	fake := fgatest.NewStarted(t)
//	fake.AddTuple("user:alice", "catalog_entity_read", "catalog_entity:svc")
//	client, _ := fga.New(fga.Config{BaseURL: fake.URL(), StoreID: "s1"}, transport)
//
// Server implements testutil.TestComponent; Snapshot and Restore cover the
// tuple set.
package fgatest
