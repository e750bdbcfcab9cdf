// Copyright 2021 Airbus Defence and Space
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rasterio is a narrow, mostly read-only cgo binding onto
// libgdal, trimmed from github.com/airbusgeo/godal down to exactly what
// the AFC raster data layer needs: open a single-band-at-a-time raster
// dataset, read its geotransform/no-data sentinel, and pull pixel
// windows. godal's vector/rasterize/warp/translate/COG surface is not
// reachable from any AFC component (§1 Non-goal: no vector or
// KML/GeoJSON writing), so it is not carried here; see DESIGN.md for the
// per-symbol trim rationale. The one write path, Create, exists only so
// raster/ tests can build small synthetic GeoTIFFs instead of checking
// in binary fixtures.
package rasterio

/*
#cgo pkg-config: gdal
#include "gdal.h"
#include "cpl_conv.h"
#include <stdlib.h>

static GDALDatasetH afcOpenReadOnly(const char *path) {
	return GDALOpen(path, GA_ReadOnly);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

var initOnce sync.Once

// Init registers every GDAL driver once per process (GDALAllRegister,
// as godal.RegisterAll does). That covers the formats the AFC raster
// sources use: GTiff for 3DEP/NLCD/LiDAR, HFA for legacy img, and SRTM
// .hgt and GLOBE .bil via GDAL's auto-detected raw/HFA drivers.
func Init() {
	initOnce.Do(func() {
		C.GDALAllRegister()
	})
}

// Dataset is an open, read-only GDAL raster dataset.
type Dataset struct {
	handle C.GDALDatasetH
	path   string
}

// Open opens path read-only. The caller must call Close.
func Open(path string) (*Dataset, error) {
	Init()
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	h := C.afcOpenReadOnly(cPath)
	if h == nil {
		return nil, fmt.Errorf("rasterio: open %s: %w", path, lastCPLError())
	}
	return &Dataset{handle: h, path: path}, nil
}

// Close releases the underlying GDAL dataset handle.
func (d *Dataset) Close() error {
	if d.handle == nil {
		return nil
	}
	C.GDALClose(d.handle)
	d.handle = nil
	return nil
}

// Path returns the path this dataset was opened from, used as the tile
// cache key's base filename.
func (d *Dataset) Path() string { return d.path }

// GeoTransform returns GDAL's 6-coefficient affine transform
// [originX, pixelWidth, 0, originY, 0, pixelHeight] (pixelHeight negative
// for north-up rasters).
func (d *Dataset) GeoTransform() ([6]float64, error) {
	var gt [6]C.double
	if C.GDALGetGeoTransform(d.handle, &gt[0]) != C.CE_None {
		return [6]float64{}, fmt.Errorf("rasterio: %s has no geotransform", d.path)
	}
	var out [6]float64
	for i := range gt {
		out[i] = float64(gt[i])
	}
	return out, nil
}

// RasterSize returns (xSize, ySize) in pixels.
func (d *Dataset) RasterSize() (int, int) {
	return int(C.GDALGetRasterXSize(d.handle)), int(C.GDALGetRasterYSize(d.handle))
}

// BandCount returns the number of raster bands.
func (d *Dataset) BandCount() int {
	return int(C.GDALGetRasterCount(d.handle))
}

// Band wraps a single 1-indexed raster band.
type Band struct {
	handle C.GDALRasterBandH
}

// Band returns the i'th (1-indexed) band of the dataset.
func (d *Dataset) Band(i int) (Band, error) {
	h := C.GDALGetRasterBand(d.handle, C.int(i))
	if h == nil {
		return Band{}, fmt.Errorf("rasterio: %s has no band %d", d.path, i)
	}
	return Band{handle: h}, nil
}

// NoData returns the band's no-data sentinel, if declared.
func (b Band) NoData() (float64, bool) {
	var ok C.int
	v := C.GDALGetRasterNoDataValue(b.handle, &ok)
	return float64(v), ok != 0
}

// ReadWindow reads a bufWidth x bufHeight window of float64 samples
// starting at pixel (srcX, srcY), resampling nothing (1:1 window read as
// used by the AFC tile cache, whose tiles are always read at native
// resolution).
func (b Band) ReadWindow(srcX, srcY, width, height int) ([]float64, error) {
	buf := make([]float64, width*height)
	rc := C.GDALRasterIO(
		b.handle, C.GF_Read,
		C.int(srcX), C.int(srcY), C.int(width), C.int(height),
		unsafe.Pointer(&buf[0]), C.int(width), C.int(height),
		C.GDT_Float64, 0, 0,
	)
	if rc != C.CE_None {
		return nil, fmt.Errorf("rasterio: read window (%d,%d %dx%d): %w", srcX, srcY, width, height, lastCPLError())
	}
	return buf, nil
}

// Create writes a single-band, float64 GeoTIFF of xSize x ySize pixels at
// path, with geotransform gt and the given no-data value, filled from
// pixels (row-major, length xSize*ySize). It mirrors godal's own Create,
// narrowed to the one shape the test suite needs.
func Create(path string, xSize, ySize int, gt [6]float64, noData float64, pixels []float64) error {
	Init()
	driverName := C.CString("GTiff")
	defer C.free(unsafe.Pointer(driverName))
	driver := C.GDALGetDriverByName(driverName)
	if driver == nil {
		return fmt.Errorf("rasterio: GTiff driver not registered")
	}

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	h := C.GDALCreate(driver, cPath, C.int(xSize), C.int(ySize), 1, C.GDT_Float64, nil)
	if h == nil {
		return fmt.Errorf("rasterio: create %s: %w", path, lastCPLError())
	}
	defer C.GDALClose(h)

	var cgt [6]C.double
	for i, v := range gt {
		cgt[i] = C.double(v)
	}
	if C.GDALSetGeoTransform(h, &cgt[0]) != C.CE_None {
		return fmt.Errorf("rasterio: set geotransform for %s: %w", path, lastCPLError())
	}

	band := C.GDALGetRasterBand(h, 1)
	if band == nil {
		return fmt.Errorf("rasterio: %s has no band 1", path)
	}
	C.GDALSetRasterNoDataValue(band, C.double(noData))

	rc := C.GDALRasterIO(
		band, C.GF_Write,
		0, 0, C.int(xSize), C.int(ySize),
		unsafe.Pointer(&pixels[0]), C.int(xSize), C.int(ySize),
		C.GDT_Float64, 0, 0,
	)
	if rc != C.CE_None {
		return fmt.Errorf("rasterio: write %s: %w", path, lastCPLError())
	}
	return nil
}

func lastCPLError() error {
	msg := C.GoString(C.CPLGetLastErrorMsg())
	if msg == "" {
		return fmt.Errorf("unknown GDAL error")
	}
	return fmt.Errorf("%s", msg)
}
