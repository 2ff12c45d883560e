// Package jsonapi parses JSON-API style documents into a deduplicated graph of
// typed resources.
//
// Several documents, and several places within one document, may describe
// the same logical resource: primary data, the included array, and
// relationship linkage. Every reference with the same (id, type) resolves to
// one shared object, and relationship targets that are never described get a
// placeholder (stub) so lookups always succeed.
//
// # Architecture Overview
//
//	jsonapi/          Root package with one-call Unmarshal and Decode
//	├── document/     Raw document model and JSON decoding
//	├── resource/     Resource identity, Base, and the concurrent Pool
//	├── registry/     Type name to constructor registry
//	├── session/      Context: resolves documents into a pool
//	└── errors/       Structured error types
//
// # Quick Start
//
// Declare and register resource types once, at startup:
//
//	type Article struct {
//		resource.Base
//	}
//
//	func (a *Article) Title() string {
//		v, _ := a.Attribute("title")
//		s, _ := v.(string)
//		return s
//	}
//
//	func init() {
//		registry.MustRegister("articles", registry.Of[Article]())
//	}
//
// Then resolve documents:
//
//	ctx, result, err := jsonapi.Unmarshal(body)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.Kind == session.KindResource {
//		article := result.Resource.(*Article)
//		author, _ := article.RelatedOne("author")
//		fmt.Println(article.Title(), author.ID())
//	}
//
// # Thread Safety
//
// Pool and Registry are safe for concurrent use. Resolve calls on one Context
// are serialized; different Contexts resolve independently.
//
// # Ownership
//
// A Context's pool starts in strong mode and keeps every resource. After
// Context.Reassign the pool is in weak mode: entries stay reachable, and are
// released once their external borrows are returned or Sweep is called.
package jsonapi
