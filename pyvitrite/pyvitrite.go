package pyvitrite

// Copyright 2018 The go-python Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/go-python/gpython/py"

	"github.com/vitrite-systems/vitrite/govitrite"
	"github.com/vitrite-systems/vitrite/libvitrite"
	"github.com/vitrite-systems/vitrite/libvitrite/catalog"
)

var (
	LIB_VERSION = "v1.2026.1"
)

var (
	pyGraphType       = py.NewType("Graph", "an undirected bond network with optional lattice offsets")
	pyCycleStreamType = py.NewType("CycleStream", "govitrite.CycleStream")
	pyCatalogType     = py.NewType("Catalog", "govitrite.Catalog")
	pyWorkspaceType   = py.NewType("Workspace", "collects active session resources and catalogs")
)

type pyGraph struct {
	*libvitrite.Graph
}

func (g pyGraph) Type() *py.Type {
	return pyGraphType
}

func (g pyGraph) M__str__() (py.Object, error) {
	return py.String(fmt.Sprintf("Graph{%d nodes, %d edges}", g.NumNodes(), g.NumEdges())), nil
}

func (g pyGraph) M__repr__() (py.Object, error) {
	return g.M__str__()
}

func getGraphFromObj(obj py.Object) (pyGraph, error) {
	if g, ok := obj.(pyGraph); ok {
		return g, nil
	}
	return pyGraph{}, py.ExceptionNewf(py.TypeError, "expected Graph object (got %v)", obj.Type().Name)
}

// Arg 1 (str): graph expression, e.g. "1-2-3-1"
func py_NewGraph(module py.Object, args py.Tuple) (py.Object, error) {
	var expr string
	err := py.LoadTuple(args, []interface{}{&expr})
	if err != nil {
		return nil, err
	}
	g, err := libvitrite.ParseGraph(expr)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.Object(pyGraph{g}), nil
}

func py_Graph_NumNodes(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)
	return py.Object(py.Int(g.NumNodes())), nil
}

func py_Graph_NumEdges(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)
	return py.Object(py.Int(g.NumEdges())), nil
}

// Arg 1 (int): max cycle size
func py_Graph_Cycles(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)
	var maxSize py.Object
	err := py.ParseTuple(args, "i", &maxSize)
	if err != nil {
		return nil, err
	}
	en, err := libvitrite.NewEnumerator(g.Graph, libvitrite.EnumOpts{
		MaxSize: int(maxSize.(py.Int)),
	})
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return wrapCycleStream(en.EnumerateCycles()), nil
}

// Arg 1 (int): max face size
// Returns a tuple of hulls, each a tuple of canonical face walks (tuples of ints).
func py_Graph_Hulls(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)
	var maxSize py.Object
	err := py.ParseTuple(args, "i", &maxSize)
	if err != nil {
		return nil, err
	}

	en, err := libvitrite.NewEnumerator(g.Graph, libvitrite.EnumOpts{
		MaxSize: int(maxSize.(py.Int)),
	})
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	en.EnumerateCycles().PullAll()

	hulls, _, err := libvitrite.BuildHulls(g.Graph, en.Index, libvitrite.HullOpts{})
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	out := make(py.Tuple, len(hulls))
	for i, hull := range hulls {
		faces := make(py.Tuple, len(hull.Faces))
		for j, face := range hull.Faces {
			walk := make(py.Tuple, len(face))
			for k, n := range face {
				walk[k] = py.Int(n)
			}
			faces[j] = walk
		}
		out[i] = faces
	}
	return out, nil
}

// Arg 1 (int): max face size
// Returns the fraction of graph edges covered by some hull.
func py_Graph_Coverage(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)
	var maxSize py.Object
	err := py.ParseTuple(args, "i", &maxSize)
	if err != nil {
		return nil, err
	}

	en, err := libvitrite.NewEnumerator(g.Graph, libvitrite.EnumOpts{
		MaxSize: int(maxSize.(py.Int)),
	})
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	en.EnumerateCycles().PullAll()

	_, stats, err := libvitrite.BuildHulls(g.Graph, en.Index, libvitrite.HullOpts{})
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Float(stats.Coverage()), nil
}

// Arg 1 (str): "triangle", "tetrahedron", or "octahedron"
func py_Graph_Simplices(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)
	var kindName string
	err := py.LoadTuple(args, []interface{}{&kindName})
	if err != nil {
		return nil, err
	}

	var kind govitrite.SimplexKind
	switch kindName {
	case "triangle":
		kind = govitrite.Triangle
	case "tetrahedron":
		kind = govitrite.Tetrahedron
	case "octahedron":
		kind = govitrite.Octahedron
	default:
		return nil, py.ExceptionNewf(py.ValueError, "unknown simplex kind %q", kindName)
	}

	found, err := libvitrite.EnumerateSimplices(g.Graph, kind)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	out := make(py.Tuple, len(found))
	for i, nodes := range found {
		t := make(py.Tuple, len(nodes))
		for j, n := range nodes {
			t[j] = py.Int(n)
		}
		out[i] = t
	}
	return out, nil
}

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

type Workspace struct {
	CatalogCtx govitrite.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: govitrite.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := govitrite.CatalogOpts{
		DbPathName: pathname,
		ReadOnly:   (flags & READ_ONLY) != 0,
	}
	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Object(pyCatalog{cat}), nil
}

type pyCatalog struct {
	govitrite.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	cat.Catalog.Close()
	return py.None, nil
}

// Arg 1 (int, optional): min size
// Arg 2 (int, optional): max size
func py_Catalog_Select(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	sel := getCycleSelector(args)
	next := govitrite.SelectFromCatalog(cat.Catalog, sel)
	return wrapCycleStream(next), nil
}

func py_Catalog_NumCycles(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	size, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(cat.NumCycles(byte(size))), nil
}

func getCycleSelector(args py.Tuple) govitrite.CycleSelector {
	var sel govitrite.CycleSelector
	if len(args) > 0 {
		if v, err := py.GetInt(args[0]); err == nil {
			sel.MinSize = byte(v)
		}
	}
	if len(args) > 1 {
		if v, err := py.GetInt(args[1]); err == nil {
			sel.MaxSize = byte(v)
		}
	}
	return sel
}

type cycleStream struct {
	*govitrite.CycleStream
}

func wrapCycleStream(stream *govitrite.CycleStream) py.Object {
	return cycleStream{stream}
}

func (stream cycleStream) Type() *py.Type {
	return pyCycleStreamType
}

func py_CycleStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(cycleStream)
	count := stream.PullAll()
	if err := stream.Err(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Int(count), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	if echo.to == nil {
		return echo.stdout.Write(buf)
	}
	return echo.to.Write(buf)
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

var gOutCount = int32(0)

func py_CycleStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(cycleStream)
	var pathname string

	opts := govitrite.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}

	atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", gOutCount)
	}

	py.LoadAttr(kwargs, "nodes", &opts.Nodes)
	py.LoadAttr(kwargs, "key", &opts.Key)
	py.LoadAttr(kwargs, "size", &opts.ShowSize)
	py.LoadAttr(kwargs, "file", &pathname)

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}

	next := stream.Print(writer, opts)
	return wrapCycleStream(next), nil
}

func py_CycleStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(cycleStream)
	catObj, ok := args[0].(pyCatalog)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "%v", errors.New("expected Catalog object"))
	}
	if catObj.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", errors.New("Catalog is in read-only mode"))
	}

	next := stream.AddTo(catObj.Catalog)
	return wrapCycleStream(next), nil
}

func py_CycleStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(cycleStream)
	next := stream.AddTo(libvitrite.NewDropDupes(libvitrite.DropDupeOpts{}))
	return wrapCycleStream(next), nil
}

func py_CycleStream_Select(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(cycleStream)
	next := stream.SelectSize(getCycleSelector(args))
	return wrapCycleStream(next), nil
}

func init() {

	/////////////////////////////////
	// Graph
	{
		pyGraphType.Dict["NumNodes"] = py.MustNewMethod("NumNodes", py_Graph_NumNodes, 0, "")
		pyGraphType.Dict["NumEdges"] = py.MustNewMethod("NumEdges", py_Graph_NumEdges, 0, "")
		pyGraphType.Dict["Cycles"] = py.MustNewMethod("Cycles", py_Graph_Cycles, 0, "streams every irreducible cycle up to the given size")
		pyGraphType.Dict["Hulls"] = py.MustNewMethod("Hulls", py_Graph_Hulls, 0, "assembles vitrite hulls from cycles up to the given size")
		pyGraphType.Dict["Coverage"] = py.MustNewMethod("Coverage", py_Graph_Coverage, 0, "fraction of edges covered by hulls")
		pyGraphType.Dict["Simplices"] = py.MustNewMethod("Simplices", py_Graph_Simplices, 0, "")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "")
		pyCatalogType.Dict["NumCycles"] = py.MustNewMethod("NumCycles", py_Catalog_NumCycles, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	/////////////////////////////////
	// CycleStream
	{
		pyCycleStreamType.Dict["Go"] = py.MustNewMethod("Go", py_CycleStream_Go, 0, "counts the number of cycles output from the CycleStream")
		pyCycleStreamType.Dict["Print"] = py.MustNewMethod("Print", py_CycleStream_Print, 0, "prints each cycle from the CycleStream")
		pyCycleStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", py_CycleStream_AddTo, 0, "")
		pyCycleStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_CycleStream_DropDupes, 0, "")
		pyCycleStreamType.Dict["Select"] = py.MustNewMethod("Select", py_CycleStream_Select, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("NewGraph", py_NewGraph, 0, ""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"PY_VERSION":  py.String("v3.4.0"),
			"MAX_CYCLE":   py.Int(govitrite.MaxCycleSize),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pyvitrite",
				Doc:  "vitrite hull analysis gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
