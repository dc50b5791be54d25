package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of a catalog file. Unknown content is
// left in Remain and ignored.
type fileRoot struct {
	Suites []*suiteBlock `hcl:"suite,block"`
	Remain hcl.Body      `hcl:",remain"`
}

// suiteBlock is the HCL schema of a `suite` block. Attributes are kept as
// expressions so that they can be evaluated with the loader's context.
type suiteBlock struct {
	Kind       string         `hcl:"kind,label"`
	Name       string         `hcl:"name,label"`
	ID         hcl.Expression `hcl:"id,optional"`
	DependsOn  hcl.Expression `hcl:"depends_on,optional"`
	Parameters hcl.Expression `hcl:"parameters,optional"`
}
