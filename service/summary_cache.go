// Copyright 2024-2025 NetCracker Technology Corporation
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

package service

import (
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Netcracker/qubership-validation-report-service/client"
	"github.com/Netcracker/qubership-validation-report-service/utils"
	"github.com/Netcracker/qubership-validation-report-service/view"
	"github.com/buraksezer/olric"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
	log "github.com/sirupsen/logrus"
)

// SummaryCache keeps computed report summaries. Cache failures are logged and reported as a miss.
type SummaryCache interface {
	Get(key string) (*view.ReportSummary, bool)
	Put(key string, summary *view.ReportSummary)
	Delete(key string)
}

const (
	SummaryCacheLocal = "local"
	SummaryCacheOlric = "olric"
	SummaryCacheNone  = "none"
)

func NewLocalSummaryCache(size int, ttl time.Duration) SummaryCache {
	cache := libcache.LRU.New(size)
	cache.SetTTL(ttl)
	return &localSummaryCacheImpl{cache: cache}
}

type localSummaryCacheImpl struct {
	cache libcache.Cache
}

func (l *localSummaryCacheImpl) Get(key string) (*view.ReportSummary, bool) {
	value, ok := l.cache.Load(key)
	if !ok {
		return nil, false
	}
	summary, ok := value.(*view.ReportSummary)
	return summary, ok
}

func (l *localSummaryCacheImpl) Put(key string, summary *view.ReportSummary) {
	l.cache.Store(key, summary)
}

func (l *localSummaryCacheImpl) Delete(key string) {
	l.cache.Delete(key)
}

const summaryDMapName = "report-summaries"

// NewOlricSummaryCache shares summaries between replicas. Until the olric node has
// joined the cluster every lookup is a miss.
func NewOlricSummaryCache(op client.OlricProvider, ttl time.Duration) SummaryCache {
	c := &olricSummaryCacheImpl{ttl: ttl}
	utils.SafeAsync(func() {
		dm, err := op.Get().NewDMap(summaryDMapName)
		if err != nil {
			log.Errorf("Failed to create DMap %s: %s", summaryDMapName, err.Error())
			return
		}
		c.dmap.Store(dm)
		log.Infof("Summary cache DMap %s is ready", summaryDMapName)
	})
	return c
}

type olricSummaryCacheImpl struct {
	dmap atomic.Pointer[olric.DMap]
	ttl  time.Duration
}

func (o *olricSummaryCacheImpl) Get(key string) (*view.ReportSummary, bool) {
	dm := o.dmap.Load()
	if dm == nil {
		return nil, false
	}
	value, err := dm.Get(key)
	if err != nil {
		if !errors.Is(err, olric.ErrKeyNotFound) {
			log.Warnf("Failed to read summary %s from cache: %s", key, err.Error())
		}
		return nil, false
	}
	data, ok := value.([]byte)
	if !ok {
		log.Warnf("Unexpected summary cache value type %T for key %s", value, key)
		return nil, false
	}
	var summary view.ReportSummary
	if err = json.Unmarshal(data, &summary); err != nil {
		log.Warnf("Failed to decode cached summary %s: %s", key, err.Error())
		return nil, false
	}
	return &summary, true
}

func (o *olricSummaryCacheImpl) Put(key string, summary *view.ReportSummary) {
	dm := o.dmap.Load()
	if dm == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("Failed to encode summary %s: %s", key, err.Error())
		return
	}
	if err = dm.PutEx(key, data, o.ttl); err != nil {
		log.Warnf("Failed to store summary %s in cache: %s", key, err.Error())
	}
}

func (o *olricSummaryCacheImpl) Delete(key string) {
	dm := o.dmap.Load()
	if dm == nil {
		return
	}
	if err := dm.Delete(key); err != nil {
		log.Warnf("Failed to delete summary %s from cache: %s", key, err.Error())
	}
}

func NewNoopSummaryCache() SummaryCache {
	return noopSummaryCacheImpl{}
}

type noopSummaryCacheImpl struct{}

func (noopSummaryCacheImpl) Get(string) (*view.ReportSummary, bool) { return nil, false }
func (noopSummaryCacheImpl) Put(string, *view.ReportSummary)        {}
func (noopSummaryCacheImpl) Delete(string)                          {}
