// Package oconfig defines the raw configuration tree handed over by a
// directive-style config parser: every node is a key, an ordered list of
// scalar values and an ordered list of child nodes.
//
// Keys are not unique among siblings. A daemon config such as
//
//	<Plugin write_graphite>
//	  <Node>
//	    Name "a"
//	  </Node>
//	  <Node>
//	    Name "b"
//	  </Node>
//	</Plugin>
//
// is represented as one "Plugin" item whose only value is the string
// "write_graphite" and whose children are two "Node" items. Turning such a
// tree into typed records is the job of the decode package.
package oconfig
