// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	// #nosec
	_ "net/http/pprof"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// namespace 是当前项目所有 Prometheus 指标使用的命名空间。
	namespace = "packetgarden"

	// 以下为当前使用的通用标签名。
	packetTypeLabelName = "packet_type"
	emitterIDLabelName  = "emitter_id"
	stageLabelName      = "stage"

	// 报文类型标签的取值。
	PacketTypeCommand = "command"
	PacketTypeEvent   = "event"
	PacketTypeACL     = "acl"
)

var (
	// fragmentBuckets 为单个报文分片数量直方图的桶划分。
	fragmentBuckets = prometheus.ExponentialBuckets(1, 2, 10)

	PacketsBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_built_total",
			Help:      "number of packets built, by packet type",
		}, []string{packetTypeLabelName})

	PacketsFinalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packets_finalized_total",
			Help:      "number of packets finalized into a complete byte buffer",
		})

	BytesSerialized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_serialized_total",
			Help:      "total bytes produced by packet finalization",
		})

	FragmentsPerPacket = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fragments_per_packet",
			Help:      "number of fragments an oversized payload is split into",
			Buckets:   fragmentBuckets,
		})

	EmitterQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "emitter_queue_depth",
			Help:      "number of packets waiting in an emitter send queue",
		}, []string{emitterIDLabelName})

	EmitterBytesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emitter_bytes_sent_total",
			Help:      "bytes written to the underlying connection, by emitter",
		}, []string{emitterIDLabelName})

	EmitErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emit_errors_total",
			Help:      "emit pipeline failures, by stage",
		}, []string{stageLabelName})

	EmittersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "emitters_active",
			Help:      "number of live emitters registered in the manager",
		})

	metricRegisterer prometheus.Registerer
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册当前定义的所有指标。
// 通常应在 init 函数中调用。
func Register(r prometheus.Registerer) {
	r.MustRegister(PacketsBuilt)
	r.MustRegister(PacketsFinalized)
	r.MustRegister(BytesSerialized)
	r.MustRegister(FragmentsPerPacket)
	r.MustRegister(EmitterQueueDepth)
	r.MustRegister(EmitterBytesSent)
	r.MustRegister(EmitErrors)
	r.MustRegister(EmittersActive)
	metricRegisterer = r
}
