package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "memberbase"

// OTP 校验结果标签
const (
	OtpResultSuccess = "success"
	OtpResultInvalid = "invalid"
)

// Metrics 业务与 HTTP 指标集合，使用独立 Registry
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	otpIssued    prometheus.Counter
	otpRejected  *prometheus.CounterVec
	otpVerified  *prometheus.CounterVec
	registered   *prometheus.CounterVec
}

// New 创建并注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP 请求总数",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		otpIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_issued_total",
			Help:      "已签发的验证码数量",
		}),
		otpRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_request_rejected_total",
			Help:      "被签发策略拒绝的验证码申请",
		}, []string{"reason"}),
		otpVerified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_verify_total",
			Help:      "验证码校验次数（按结果）",
		}, []string{"result"}),
		registered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "member_registrations_total",
			Help:      "会员登记次数（按来源）",
		}, []string{"source"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.otpIssued,
		m.otpRejected,
		m.otpVerified,
		m.registered,
	)
	return m
}

// Handler /metrics 端点
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 底层 Registry（测试读取指标用）
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP 记录一次 HTTP 请求
func (m *Metrics) ObserveHTTP(method, route string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

// OtpIssued 签发一个验证码
func (m *Metrics) OtpIssued() {
	if m == nil {
		return
	}
	m.otpIssued.Inc()
}

// OtpRejected 验证码申请被策略拒绝
func (m *Metrics) OtpRejected(reason string) {
	if m == nil {
		return
	}
	m.otpRejected.WithLabelValues(reason).Inc()
}

// OtpVerified 记录一次验证码校验结果
func (m *Metrics) OtpVerified(result string) {
	if m == nil {
		return
	}
	m.otpVerified.WithLabelValues(result).Inc()
}

// MemberRegistered 记录会员登记，source 为 pre_register / self_register / promoted
func (m *Metrics) MemberRegistered(source string) {
	if m == nil {
		return
	}
	m.registered.WithLabelValues(source).Inc()
}
