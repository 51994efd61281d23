package results

import (
	"fmt"
	"strconv"
	"strings"
)

// Category classifies an Error. Values mirror HTTP status codes so that
// transports can map failures without a lookup table.
type Category int

// Error categories.
const (
	CategoryUnclassified                 Category = 0
	CategoryValidation                   Category = 400
	CategoryUnauthorized                 Category = 401
	CategoryPaymentRequired              Category = 402
	CategoryForbidden                    Category = 403
	CategoryNotFound                     Category = 404
	CategoryMethodNotAllowed             Category = 405
	CategoryNotAcceptable                Category = 406
	CategoryTimeout                      Category = 408
	CategoryConflict                     Category = 409
	CategoryGone                         Category = 410
	CategoryLengthRequired               Category = 411
	CategoryPreconditionFailed           Category = 412
	CategoryContentTooLarge              Category = 413
	CategoryURITooLong                   Category = 414
	CategoryUnsupportedMediaType         Category = 415
	CategoryRequestedRangeNotSatisfiable Category = 416
	CategoryExpectationFailed            Category = 417
	CategoryMisdirectedRequest           Category = 421
	CategoryUnprocessableContent         Category = 422
	CategoryLocked                       Category = 423
	CategoryFailedDependency             Category = 424
	CategoryUpgradeRequired              Category = 426
	CategoryPreconditionRequired         Category = 428
	CategoryTooManyRequests              Category = 429
	CategoryRequestHeaderFieldsTooLarge  Category = 431
	CategoryUnavailableForLegalReasons   Category = 451
	CategoryInternalError                Category = 500
	CategoryNotImplemented               Category = 501
	CategoryBadGateway                   Category = 502
	CategoryServiceUnavailable           Category = 503
	CategoryGatewayTimeout               Category = 504
	CategoryInsufficientStorage          Category = 507
)

// categoryNames holds the wire names. They are part of the failure payload
// format and must stay stable.
var categoryNames = map[Category]string{
	CategoryUnclassified:                 "Unclassified",
	CategoryValidation:                   "Validation",
	CategoryUnauthorized:                 "Unauthorized",
	CategoryPaymentRequired:              "PaymentRequired",
	CategoryForbidden:                    "Forbidden",
	CategoryNotFound:                     "NotFound",
	CategoryMethodNotAllowed:             "MethodNotAllowed",
	CategoryNotAcceptable:                "NotAcceptable",
	CategoryTimeout:                      "Timeout",
	CategoryConflict:                     "Conflict",
	CategoryGone:                         "Gone",
	CategoryLengthRequired:               "LengthRequired",
	CategoryPreconditionFailed:           "PreconditionFailed",
	CategoryContentTooLarge:              "ContentTooLarge",
	CategoryURITooLong:                   "UriTooLong",
	CategoryUnsupportedMediaType:         "UnsupportedMediaType",
	CategoryRequestedRangeNotSatisfiable: "RequestedRangeNotSatisfiable",
	CategoryExpectationFailed:            "ExpectationFailed",
	CategoryMisdirectedRequest:           "MisdirectedRequest",
	CategoryUnprocessableContent:         "UnprocessableContent",
	CategoryLocked:                       "Locked",
	CategoryFailedDependency:             "FailedDependency",
	CategoryUpgradeRequired:              "UpgradeRequired",
	CategoryPreconditionRequired:         "PreconditionRequired",
	CategoryTooManyRequests:              "TooManyRequests",
	CategoryRequestHeaderFieldsTooLarge:  "RequestHeaderFieldsTooLarge",
	CategoryUnavailableForLegalReasons:   "UnavailableForLegalReasons",
	CategoryInternalError:                "InternalError",
	CategoryNotImplemented:               "NotImplemented",
	CategoryBadGateway:                   "BadGateway",
	CategoryServiceUnavailable:           "ServiceUnavailable",
	CategoryGatewayTimeout:               "GatewayTimeout",
	CategoryInsufficientStorage:          "InsufficientStorage",
}

var categoriesByName = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for c, name := range categoryNames {
		m[strings.ToLower(name)] = c
	}
	return m
}()

// String returns the wire name of c, or "Category(n)" for unknown values.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// IsValid reports whether c is one of the defined categories.
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// HTTPStatus returns the HTTP status code for c. Unclassified maps to 500.
func (c Category) HTTPStatus() int {
	if c == CategoryUnclassified {
		return 500
	}
	return int(c)
}

// ParseCategory resolves a category by its wire name, ignoring case.
func ParseCategory(name string) (Category, error) {
	if c, ok := categoriesByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	return CategoryUnclassified, fmt.Errorf("%w: unknown error category %q", ErrInvalidArgument, name)
}
